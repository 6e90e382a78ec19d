package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	"github.com/eunmi228/PostApp/internal/core/post"

	"github.com/gofrs/uuid"
)

// PostRepositoryMemory is a map-backed PostRepository used by STORAGE_DRIVER=memory and tests.
type PostRepositoryMemory struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]post.Post

	// ShouldFail makes every call return an error.
	ShouldFail bool
	// FailUpdate makes only Update return an error.
	FailUpdate bool
}

func NewPostRepositoryMemory() *PostRepositoryMemory {
	return &PostRepositoryMemory{posts: make(map[uuid.UUID]post.Post)}
}

var errPostStore = errors.New("memory: post store failure")

func (r *PostRepositoryMemory) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if r.ShouldFail {
		return nil, errPostStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.posts[p.ID] = *p
	return p, nil
}

func (r *PostRepositoryMemory) FindByID(ctx context.Context, id string) (*post.Post, error) {
	if r.ShouldFail {
		return nil, errPostStore
	}
	pid, err := uuid.FromString(id)
	if err != nil {
		return nil, apperr.NotFoundf("post %q", id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[pid]
	if !ok {
		return nil, apperr.NotFoundf("post %s", id)
	}
	return &p, nil
}

func (r *PostRepositoryMemory) FindPage(ctx context.Context, page, size int) ([]*post.Post, int64, error) {
	if r.ShouldFail {
		return nil, 0, errPostStore
	}
	if page < 1 {
		page = 1
	}

	r.mu.RLock()
	total := int64(len(r.posts))
	all := make([]post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	offset := (page - 1) * size
	if offset >= len(all) || size <= 0 {
		return []*post.Post{}, total, nil
	}
	end := min(offset+size, len(all))

	items := make([]*post.Post, 0, end-offset)
	for i := offset; i < end; i++ {
		p := all[i]
		items = append(items, &p)
	}
	return items, total, nil
}

func (r *PostRepositoryMemory) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	if r.ShouldFail || r.FailUpdate {
		return nil, errPostStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; !ok {
		return nil, apperr.NotFoundf("post %s", p.ID)
	}
	p.UpdatedAt = time.Now()
	r.posts[p.ID] = *p
	return p, nil
}

func (r *PostRepositoryMemory) DeleteByID(ctx context.Context, id string) error {
	if r.ShouldFail {
		return errPostStore
	}
	pid, err := uuid.FromString(id)
	if err != nil {
		return apperr.NotFoundf("post %q", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[pid]; !ok {
		return apperr.NotFoundf("post %s", id)
	}
	delete(r.posts, pid)
	return nil
}
