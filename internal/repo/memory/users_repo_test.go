package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/accountd/accountd/internal/repo"
	"github.com/accountd/accountd/internal/repo/memory"
)

func TestCreateAndGetByUsername(t *testing.T) {
	r := memory.NewUsersRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "alice", "hash-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("store should assign an id")
	}
	if !created.Active {
		t.Fatalf("new users should default to active")
	}

	got, err := r.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.ID != created.ID || got.PasswordHash != "hash-1" {
		t.Fatalf("lookup mismatch: %+v", got)
	}

	if _, err := r.GetByUsername(ctx, "nobody"); !errors.Is(err, repo.ErrUserNotFound) {
		t.Fatalf("unknown username should yield ErrUserNotFound, got %v", err)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	r := memory.NewUsersRepo()
	ctx := context.Background()

	if _, err := r.Create(ctx, "alice", "hash-1"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := r.Create(ctx, "alice", "hash-2")
	if !errors.Is(err, repo.ErrUsernameTaken) {
		t.Fatalf("second Create = %v, want ErrUsernameTaken", err)
	}

	users, err := r.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("store should hold exactly one alice record, got %d users", len(users))
	}
}

func TestCreate_ConcurrentSameUsername(t *testing.T) {
	r := memory.NewUsersRepo()
	ctx := context.Background()

	const attempts = 16

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.Create(ctx, "alice", "hash")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repo.ErrUsernameTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("exactly one concurrent Create should win, got %d", successes)
	}
}

func TestSetActiveAndListActive(t *testing.T) {
	r := memory.NewUsersRepo()
	ctx := context.Background()

	a, _ := r.Create(ctx, "alice", "hash-a")
	b, _ := r.Create(ctx, "bobby", "hash-b")

	got, err := r.SetActive(ctx, a.ID, false)
	if err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if got.Active {
		t.Fatalf("SetActive(false) should return a deactivated user")
	}

	users, err := r.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != b.ID {
		t.Fatalf("listing should only contain bobby, got %+v", users)
	}
	if users[0].PasswordHash != "" {
		t.Fatalf("listing projection must not include the password hash")
	}

	if _, err := r.SetActive(ctx, "no-such-id", false); !errors.Is(err, repo.ErrUserNotFound) {
		t.Fatalf("SetActive on unknown id = %v, want ErrUserNotFound", err)
	}
}
