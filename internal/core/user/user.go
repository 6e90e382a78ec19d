package user

import (
	"time"

	"github.com/gofrs/uuid"
)

const DefaultStatus = "I am new!"

type User struct {
	ID        uuid.UUID  `gorm:"primary_key;type:char(36)"`
	Name      string     `gorm:"not null"`
	Email     string     `gorm:"type:varchar(255);unique;not null"`
	Password  string     `gorm:"not null"`
	Status    string     `gorm:"type:varchar(255);not null"`
	Posts     []UserPost `gorm:"foreignKey:UserID"` // back-reference to owned posts
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// UserPost is one entry of a user's post set. The pair is the primary key,
// so a set never holds the same post twice.
type UserPost struct {
	UserID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	PostID    uuid.UUID `gorm:"primaryKey;type:char(36)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (u *User) PostIDs() []string {
	ids := make([]string, 0, len(u.Posts))
	for _, p := range u.Posts {
		ids = append(ids, p.PostID.String())
	}
	return ids
}

func (u *User) HasPost(postID uuid.UUID) bool {
	for _, p := range u.Posts {
		if p.PostID == postID {
			return true
		}
	}
	return false
}
