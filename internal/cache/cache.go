package cache

import (
	"context"
	"sync"
	"time"

	"github.com/accountd/accountd/internal/domain/user"
)

// UserList caches the active-users listing between writes. Implementations
// are fail-open: a broken cache means a store round-trip, never an error.
type UserList interface {
	Get(ctx context.Context) ([]user.User, bool)
	Set(ctx context.Context, users []user.User)
	Invalidate(ctx context.Context)
}

// Memory is the in-process implementation, used when no redis address is
// configured and in tests.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	val []user.User
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{ttl: ttl}
}

func (c *Memory) Get(ctx context.Context) ([]user.User, bool) {
	now := time.Now()
	c.mu.RLock()
	val, exp := c.val, c.exp
	c.mu.RUnlock()

	if val == nil || now.After(exp) {
		return nil, false
	}

	return val, true
}

func (c *Memory) Set(ctx context.Context, users []user.User) {
	if users == nil {
		users = []user.User{}
	}

	c.mu.Lock()
	c.val = users
	c.exp = time.Now().Add(c.ttl)
	c.mu.Unlock()
}

func (c *Memory) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.val = nil
	c.mu.Unlock()
}
