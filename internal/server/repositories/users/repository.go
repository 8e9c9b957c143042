// Package users declares the credential store contract and its file-backed
// and PostgreSQL implementations.
package users

import (
	"context"

	"github.com/avolkov/authgate/internal/server/models"
)

// Repository is the durable collection of user records. Usernames are
// unique case-insensitively; records are never mutated or deleted.
type Repository interface {
	// Create stores a new user. It returns common.ErrorAlreadyExists when
	// another record holds the same username in any case variant, and only
	// reports success once the record is durably persisted.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername looks a user up case-insensitively.
	// Absent users yield common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID looks a user up by id.
	// Absent users yield common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
