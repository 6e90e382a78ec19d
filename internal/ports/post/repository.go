package post

import (
	"context"
	"time"

	"github.com/eunmi228/PostApp/internal/core/post"
)

// PostRepository پورت برای ذخیره‌سازی و بازیابی پست‌ها
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id string) (*post.Post, error)
	// FindPage skips (page-1)*size posts and returns up to size of them,
	// together with the total number of posts. The total is read separately
	// from the page, so concurrent writes may make the two disagree.
	FindPage(ctx context.Context, page, size int) ([]*post.Post, int64, error)
	Update(ctx context.Context, post *post.Post) (*post.Post, error)
	DeleteByID(ctx context.Context, id string) error
}

// DTOها برای UseCase
type PostDTO struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	CreatorID string `json:"creator"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func ToDTO(p *post.Post) *PostDTO {
	return &PostDTO{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatorID: p.CreatorID.String(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
