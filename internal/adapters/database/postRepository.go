package database

import (
	"context"
	"errors"
	"time"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	"github.com/eunmi228/PostApp/internal/core/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase پیاده‌سازی PostRepository برای دیتابیس
type PostRepositoryDatabase struct {
	db *gorm.DB
}

// NewPostRepositoryDatabase سازنده PostRepositoryDatabase
func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("post %s", id)
		}
		return nil, err
	}
	return &p, nil
}

// FindPage runs the count and the page query as two independent reads.
func (repo *PostRepositoryDatabase) FindPage(ctx context.Context, page, size int) ([]*post.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []*post.Post{}
	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update overwrites the mutable fields only; it never re-inserts a post
// that was deleted concurrently.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	p.UpdatedAt = time.Now()
	res := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"image_url":  p.ImageURL,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFoundf("post %s", p.ID)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) DeleteByID(ctx context.Context, id string) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("post %s", id)
	}
	return nil
}
