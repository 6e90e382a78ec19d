package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/eunmi228/PostApp/internal/core/apperr"
	"github.com/eunmi228/PostApp/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepositoryMemory is a map-backed UserRepository used by STORAGE_DRIVER=memory and tests.
type UserRepositoryMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User

	// failure injection for the back-reference writes
	FailAddPostRef    bool
	FailRemovePostRef bool
}

func NewUserRepositoryMemory() *UserRepositoryMemory {
	return &UserRepositoryMemory{users: make(map[uuid.UUID]user.User)}
}

var (
	errAddPostRef    = errors.New("memory: add post ref failed")
	errRemovePostRef = errors.New("memory: remove post ref failed")
	errDuplicateUser = errors.New("memory: duplicate email")
)

func (r *UserRepositoryMemory) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, errDuplicateUser
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = cloneUser(*u)
	return u, nil
}

func (r *UserRepositoryMemory) FindByID(ctx context.Context, id string) (*user.User, error) {
	uid, err := uuid.FromString(id)
	if err != nil {
		return nil, apperr.NotFoundf("user %q", id)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[uid]
	if !ok {
		return nil, apperr.NotFoundf("user %s", id)
	}
	c := cloneUser(u)
	return &c, nil
}

func (r *UserRepositoryMemory) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, apperr.NotFoundf("user with email %q", email)
}

func (r *UserRepositoryMemory) Save(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[u.ID]
	if !ok {
		return nil, apperr.NotFoundf("user %s", u.ID)
	}
	stored.Name = u.Name
	stored.Status = u.Status
	stored.UpdatedAt = time.Now()
	r.users[u.ID] = stored

	c := cloneUser(stored)
	return &c, nil
}

func (r *UserRepositoryMemory) AddPostRef(ctx context.Context, userID, postID string) error {
	if r.FailAddPostRef {
		return errAddPostRef
	}
	uid, pid, err := parseRef(userID, postID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return apperr.NotFoundf("user %s", userID)
	}
	if u.HasPost(pid) {
		return nil
	}
	u.Posts = append(u.Posts, user.UserPost{UserID: uid, PostID: pid, CreatedAt: time.Now()})
	r.users[uid] = u
	return nil
}

func (r *UserRepositoryMemory) RemovePostRef(ctx context.Context, userID, postID string) error {
	if r.FailRemovePostRef {
		return errRemovePostRef
	}
	uid, pid, err := parseRef(userID, postID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return apperr.NotFoundf("user %s", userID)
	}
	kept := make([]user.UserPost, 0, len(u.Posts))
	for _, ref := range u.Posts {
		if ref.PostID != pid {
			kept = append(kept, ref)
		}
	}
	u.Posts = kept
	r.users[uid] = u
	return nil
}

func parseRef(userID, postID string) (uuid.UUID, uuid.UUID, error) {
	uid, err := uuid.FromString(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperr.NotFoundf("user %q", userID)
	}
	pid, err := uuid.FromString(postID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.New("memory: invalid post id " + postID)
	}
	return uid, pid, nil
}

func cloneUser(u user.User) user.User {
	u.Posts = append([]user.UserPost(nil), u.Posts...)
	return u
}
