package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/filex"
	"github.com/avolkov/authgate/internal/server/models"
)

// FileRepository persists user records as a JSON array on disk, the whole
// collection rewritten on every mutation. A single writer lock makes the
// uniqueness check, the append, and the persist atomic with respect to
// other writers; reads share the in-memory index. A create only succeeds
// once the file write has succeeded, so a failed persist leaves no phantom
// user behind.
type FileRepository struct {
	path string

	mu     sync.RWMutex
	byID   map[string]models.User
	byName map[string]models.User // key: lowercase username
}

// NewFileRepository opens the store at path, creating the parent directory
// and an empty collection if the file does not exist yet.
func NewFileRepository(path string) (*FileRepository, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("prepare store dir: %w", err)
	}

	r := &FileRepository{
		path:   abs,
		byID:   make(map[string]models.User),
		byName: make(map[string]models.User),
	}

	if err := r.load(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First access: initialize an empty collection on disk.
			return r.persistLocked(nil)
		}
		return fmt.Errorf("read store: %w", err)
	}

	var records []models.User
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parse store: %w", err)
		}
	}

	for _, u := range records {
		r.byID[u.ID] = u
		r.byName[strings.ToLower(u.Username)] = u
	}

	return nil
}

// persistLocked writes the full collection to disk via a temp file and an
// atomic rename. Callers must hold the write lock (or be in init).
func (r *FileRepository) persistLocked(records []models.User) error {
	if records == nil {
		records = make([]models.User, 0, len(r.byID))
		for _, u := range r.byID {
			records = append(records, u)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}

	return nil
}

// Create checks uniqueness, persists the grown collection, and only then
// updates the in-memory index.
func (r *FileRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.ToLower(user.Username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[key]; exists {
		return nil, common.ErrorAlreadyExists
	}

	records := make([]models.User, 0, len(r.byID)+1)
	for _, u := range r.byID {
		records = append(records, u)
	}
	records = append(records, *user)

	if err := r.persistLocked(records); err != nil {
		// Index untouched: the user was never created.
		return nil, err
	}

	r.byID[user.ID] = *user
	r.byName[key] = *user

	out := *user
	return &out, nil
}

func (r *FileRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[strings.ToLower(username)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u
	return &out, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := u
	return &out, nil
}
