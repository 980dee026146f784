package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accountd/accountd/internal/domain/user"
	"github.com/accountd/accountd/internal/repo"
	"github.com/google/uuid"
)

// UsersRepo is an in-memory credential store with the same contract as the
// postgres one. The single mutex is its uniqueness authority: check and
// insert happen under one critical section, so concurrent Creates for the
// same username cannot both succeed.
type UsersRepo struct {
	mu    sync.RWMutex
	byID  map[string]user.User
	names map[string]string // username -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:  make(map[string]user.User),
		names: make(map[string]string),
	}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[username]
	if !ok {
		return user.User{}, repo.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.names[username]; exists {
		return user.User{}, repo.ErrUsernameTaken
	}

	u := user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	r.byID[u.ID] = u
	r.names[u.Username] = u.ID

	return u, nil
}

func (r *UsersRepo) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, repo.ErrUserNotFound
	}

	u.Active = active
	r.byID[id] = u

	return u, nil
}

func (r *UsersRepo) ListActive(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, 0, len(r.byID))

	for _, u := range r.byID {
		if !u.Active {
			continue
		}
		// match the SQL projection: no hash in listings
		u.PasswordHash = ""
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}
