package users

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/server/models"
)

func newFileRepo(t *testing.T) (*FileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("NewFileRepository error: %v", err)
	}
	return repo, path
}

func newUser(username string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestFile_InitializesEmptyStore(t *testing.T) {
	t.Parallel()

	_, path := newFileRepo(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("store file must exist after init: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", data)
	}
}

func TestFile_CreateAndLookups(t *testing.T) {
	t.Parallel()

	repo, _ := newFileRepo(t)
	ctx := context.Background()

	want := newUser("alice01")
	created, err := repo.Create(ctx, want)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID != want.ID {
		t.Fatalf("id mismatch: got %q want %q", created.ID, want.ID)
	}

	byName, err := repo.GetByUsername(ctx, "alice01")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if byName.ID != want.ID {
		t.Fatalf("unexpected user: %+v", byName)
	}

	// Lookup is case-insensitive.
	byUpper, err := repo.GetByUsername(ctx, "ALICE01")
	if err != nil {
		t.Fatalf("GetByUsername (upper) error: %v", err)
	}
	if byUpper.ID != want.ID {
		t.Fatalf("unexpected user: %+v", byUpper)
	}

	byID, err := repo.GetByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if byID.Username != "alice01" {
		t.Fatalf("unexpected user: %+v", byID)
	}
}

func TestFile_DuplicateUsernameCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo, _ := newFileRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, newUser("alice01")); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err := repo.Create(ctx, newUser("Alice01"))
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected ErrorAlreadyExists for case variant, got %v", err)
	}

	// Exactly one record survives.
	u, err := repo.GetByUsername(ctx, "alice01")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if u.Username != "alice01" {
		t.Fatalf("stored username changed: %q", u.Username)
	}
}

func TestFile_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	repo, path := newFileRepo(t)
	ctx := context.Background()

	want := newUser("alice01")
	if _, err := repo.Create(ctx, want); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	reopened, err := NewFileRepository(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	got, err := reopened.GetByID(ctx, want.ID)
	if err != nil {
		t.Fatalf("GetByID after reopen error: %v", err)
	}
	if got.Username != want.Username || got.PasswordHash != want.PasswordHash {
		t.Fatalf("record corrupted across reopen: %+v", got)
	}
}

func TestFile_FailedPersistLeavesNoPhantomUser(t *testing.T) {
	t.Parallel()

	repo, path := newFileRepo(t)
	ctx := context.Background()

	// Replace the store file with a directory so the atomic rename fails.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove store: %v", err)
	}
	if err := os.Mkdir(path, 0o700); err != nil {
		t.Fatalf("mkdir blocker: %v", err)
	}

	if _, err := repo.Create(ctx, newUser("ghost")); err == nil {
		t.Fatalf("expected persist failure")
	}

	// The failed create must not be visible in memory either.
	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for phantom user, got %v", err)
	}

	// Once the blocker is gone the username is free to take.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove blocker: %v", err)
	}
	if _, err := repo.Create(ctx, newUser("ghost")); err != nil {
		t.Fatalf("Create after recovery error: %v", err)
	}
}

func TestFile_ConcurrentDistinctRegistrations(t *testing.T) {
	t.Parallel()

	repo, _ := newFileRepo(t)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := repo.Create(ctx, newUser(fmt.Sprintf("user%03d", i))); err != nil {
				t.Errorf("Create user%03d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		name := fmt.Sprintf("user%03d", i)
		if _, err := repo.GetByUsername(ctx, name); err != nil {
			t.Fatalf("user %s not retrievable: %v", name, err)
		}
	}
}

func TestFile_ConcurrentSameUsername(t *testing.T) {
	t.Parallel()

	repo, _ := newFileRepo(t)
	ctx := context.Background()

	const n = 20
	results := make(chan error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, newUser("contested"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, duplicates int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, common.ErrorAlreadyExists):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || duplicates != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d/%d", n-1, successes, duplicates)
	}
}

func TestFile_CancelledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newFileRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx, newUser("late")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "late"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
