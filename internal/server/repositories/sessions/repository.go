// Package sessions declares the server-side store for login session records
// and its in-memory, PostgreSQL, and Redis implementations.
package sessions

import (
	"context"
	"time"

	"github.com/avolkov/authgate/internal/server/models"
)

// Repository defines operations for storing, retrieving, and revoking
// session records.
type Repository interface {
	// Create stores a new session record.
	Create(ctx context.Context, session *models.Session) error

	// Find looks up a session by its opaque id. Implementations return
	// common.ErrorNotFound when the session is absent.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session by id. Deleting a non-existent session is
	// not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions whose expiry is at or before now and
	// reports how many were removed. Backends with native expiry may
	// implement this as a no-op.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
