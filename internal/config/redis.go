package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisClient متغیر برای دسترسی به Redis
var RedisClient *redis.Client

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
func InitRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// بررسی اتصال به Redis
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	RedisClient = client
	return client, nil
}
