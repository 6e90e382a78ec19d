package redis

import (
	"context"
	"encoding/json"
	"fmt"

	imagePort "github.com/eunmi228/PostApp/internal/ports/image"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const imageFailuresKey = "images:delete_failures"

// ImageJournalRedis keeps the most recent image delete failures in a capped list.
type ImageJournalRedis struct {
	Client  *redis.Client
	MaxSize int64
	Logger  *zap.Logger
}

func NewImageJournalRedis(client *redis.Client, maxSize int64, logger *zap.Logger) *ImageJournalRedis {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &ImageJournalRedis{
		Client:  client,
		MaxSize: maxSize,
		Logger:  logger,
	}
}

// Record پیام خطا را به ابتدای لیست اضافه می‌کند و لیست را کوتاه نگه می‌دارد
func (r *ImageJournalRedis) Record(ctx context.Context, failure imagePort.DeleteFailure) error {
	payload, err := json.Marshal(failure)
	if err != nil {
		return fmt.Errorf("marshal delete failure: %w", err)
	}

	pipe := r.Client.TxPipeline()
	pipe.LPush(ctx, imageFailuresKey, payload)
	pipe.LTrim(ctx, imageFailuresKey, 0, r.MaxSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	r.Logger.Debug("Journaled image delete failure", zap.String("path", failure.Path))
	return nil
}

func (r *ImageJournalRedis) Recent(ctx context.Context, limit int64) ([]imagePort.DeleteFailure, error) {
	if limit <= 0 {
		limit = imagePort.DefaultRecentLimit
	}
	raw, err := r.Client.LRange(ctx, imageFailuresKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	failures := make([]imagePort.DeleteFailure, 0, len(raw))
	for _, item := range raw {
		var f imagePort.DeleteFailure
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			r.Logger.Warn("Skipping malformed journal entry", zap.Error(err))
			continue
		}
		failures = append(failures, f)
	}
	return failures, nil
}
