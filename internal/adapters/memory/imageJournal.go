package memory

import (
	"context"
	"sync"

	imagePort "github.com/eunmi228/PostApp/internal/ports/image"
)

// ImageJournalMemory keeps image delete failures in process, newest first.
type ImageJournalMemory struct {
	mu       sync.Mutex
	failures []imagePort.DeleteFailure
	max      int
}

func NewImageJournalMemory(size int) *ImageJournalMemory {
	if size <= 0 {
		size = 1000
	}
	return &ImageJournalMemory{max: size}
}

func (j *ImageJournalMemory) Record(ctx context.Context, failure imagePort.DeleteFailure) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failures = append([]imagePort.DeleteFailure{failure}, j.failures...)
	if len(j.failures) > j.max {
		j.failures = j.failures[:j.max]
	}
	return nil
}

func (j *ImageJournalMemory) Recent(ctx context.Context, limit int64) ([]imagePort.DeleteFailure, error) {
	if limit <= 0 {
		limit = imagePort.DefaultRecentLimit
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	n := len(j.failures)
	if int(limit) < n {
		n = int(limit)
	}
	return append([]imagePort.DeleteFailure(nil), j.failures[:n]...), nil
}
