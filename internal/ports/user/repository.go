package user

import (
	"context"

	"github.com/eunmi228/PostApp/internal/core/user"
)

// UserRepository پورت برای ذخیره‌سازی و بازیابی کاربران
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// Save persists name and status of an existing user.
	Save(ctx context.Context, user *user.User) (*user.User, error)
	// AddPostRef and RemovePostRef are idempotent on the post set; they fail
	// only when the user itself does not exist.
	AddPostRef(ctx context.Context, userID, postID string) error
	RemovePostRef(ctx context.Context, userID, postID string) error
}

// DTOها برای UseCase
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Status string   `json:"status"`
	Posts  []string `json:"posts"`
}

func ToDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:     u.ID.String(),
		Name:   u.Name,
		Email:  u.Email,
		Status: u.Status,
		Posts:  u.PostIDs(),
	}
}
