package post

import (
	"time"

	"github.com/gofrs/uuid"
)

type Post struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   string    `gorm:"type:text;not null"`
	ImageURL  string    `gorm:"type:varchar(512);not null"`
	CreatorID uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// OwnedBy reports whether userID is the creator of the post.
func (p *Post) OwnedBy(userID string) bool {
	return p.CreatorID.String() == userID
}
