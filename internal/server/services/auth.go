// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, logout, and resolving the
// user behind a verified proof.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/logging"
	"github.com/avolkov/authgate/internal/server/auth"
	"github.com/avolkov/authgate/internal/server/hashing"
	"github.com/avolkov/authgate/internal/server/models"
	"github.com/avolkov/authgate/internal/server/repositories/users"
)

const (
	minUsernameLength = 4
	minPasswordLength = 6
)

// AuthService provides the authentication operations:
//   - Register: validate, create a user, issue a proof
//   - Login: verify credentials and issue a proof
//   - Logout: revoke a proof
//   - GetUser: resolve the user behind a verified proof
type AuthService struct {
	users  users.Repository
	hasher hashing.Hasher
	issuer auth.Issuer
	log    logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo users.Repository, hasher hashing.Hasher, issuer auth.Issuer, log logging.Logger) *AuthService {
	return &AuthService{
		users:  repo,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

// validateCredentials checks the shape of a username/password pair before
// any store access. The username comes back trimmed.
func validateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return "", fmt.Errorf("%w: username must be at least %d characters", common.ErrorValidation, minUsernameLength)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	return username, nil
}

// Register creates a new user and issues a proof for it. Duplicate
// usernames (in any case variant) yield common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	username, err := validateCredentials(username, password)
	if err != nil {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	proof, err := s.issuer.Issue(ctx, created.ID, created.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue proof: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", created.ID, "username", created.Username)

	return created, proof, nil
}

// Login verifies the credentials and issues a proof. Unknown usernames and
// wrong passwords are indistinguishable: both return
// common.ErrorInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", common.ErrorInvalidCredentials
	}

	proof, err := s.issuer.Issue(ctx, user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue proof: %w", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID)

	return user, proof, nil
}

// Logout revokes the proof. It is idempotent and succeeds even when the
// proof was never valid.
func (s *AuthService) Logout(ctx context.Context, proof string) error {
	if err := s.issuer.Revoke(ctx, proof); err != nil {
		return fmt.Errorf("revoke proof: %w", err)
	}
	return nil
}

// GetUser resolves the user behind a verified proof. A proof that no longer
// maps to an existing user yields common.ErrorUnauthorized.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
