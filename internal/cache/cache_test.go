package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/domain/user"
)

func TestMemory_SetGetInvalidate(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx); ok {
		t.Fatalf("empty cache should miss")
	}

	users := []user.User{{ID: "1", Username: "alice", Active: true}}
	c.Set(ctx, users)

	got, ok := c.Get(ctx)
	if !ok || len(got) != 1 || got[0].Username != "alice" {
		t.Fatalf("expected cached listing, got %v ok=%v", got, ok)
	}

	c.Invalidate(ctx)

	if _, ok := c.Get(ctx); ok {
		t.Fatalf("invalidated cache should miss")
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := cache.NewMemory(10 * time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, []user.User{{ID: "1", Username: "alice"}})

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get(ctx); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestMemory_CachesEmptyListing(t *testing.T) {
	c := cache.NewMemory(time.Minute)
	ctx := context.Background()

	c.Set(ctx, nil)

	got, ok := c.Get(ctx)
	if !ok {
		t.Fatalf("an empty listing is still a cacheable value")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty listing, got %v", got)
	}
}
