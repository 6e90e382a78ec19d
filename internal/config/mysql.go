package config

import (
	"fmt"

	"github.com/eunmi228/PostApp/internal/core/post"
	"github.com/eunmi228/PostApp/internal/core/user"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB متغیر برای دسترسی به دیتابیس
var DB *gorm.DB

// InitDB اتصال به دیتابیس MySQL را راه‌اندازی می‌کند و جدول‌ها را مایگریت می‌کند
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&user.User{},
		&user.UserPost{},
		&post.Post{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	DB = db
	return db, nil
}
