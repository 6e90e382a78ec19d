package database

import (
	"context"
	"errors"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	"github.com/eunmi228/PostApp/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryDatabase پیاده‌سازی UserRepository برای دیتابیس
type UserRepositoryDatabase struct {
	db *gorm.DB
}

// NewUserRepositoryDatabase سازنده UserRepositoryDatabase
func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Preload("Posts").Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %s", id)
		}
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user with email %q", email)
		}
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.ensureExists(ctx, u.ID.String()); err != nil {
		return nil, err
	}
	if err := repo.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "status": u.Status}).Error; err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, u.ID.String())
}

// AddPostRef به مجموعه پست‌های کاربر اضافه می‌کند؛ تکرار بی‌اثر است
func (repo *UserRepositoryDatabase) AddPostRef(ctx context.Context, userID, postID string) error {
	if err := repo.ensureExists(ctx, userID); err != nil {
		return err
	}
	ref := &user.UserPost{
		UserID: uuid.FromStringOrNil(userID),
		PostID: uuid.FromStringOrNil(postID),
	}
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ref).Error
}

func (repo *UserRepositoryDatabase) RemovePostRef(ctx context.Context, userID, postID string) error {
	if err := repo.ensureExists(ctx, userID); err != nil {
		return err
	}
	return repo.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&user.UserPost{}).Error
}

func (repo *UserRepositoryDatabase) ensureExists(ctx context.Context, id string) error {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFoundf("user %s", id)
	}
	return nil
}
