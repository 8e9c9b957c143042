package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/authgate/internal/common"
	"github.com/avolkov/authgate/internal/server/models"
	"github.com/avolkov/authgate/internal/server/repositories/sessions"
)

// sessionIDBytes gives 256 bits of entropy in the opaque session id.
const sessionIDBytes = 32

// SessionIssuer implements Issuer with server-side session records. The
// proof is the unguessable session id; Revoke deletes the record, so a
// logged-out proof fails verification immediately.
type SessionIssuer struct {
	repo     sessions.Repository
	validity time.Duration
	now      func() time.Time
}

// NewSessionIssuer creates a session issuer over the given store, with
// sessions valid for the given duration.
func NewSessionIssuer(repo sessions.Repository, validity time.Duration) *SessionIssuer {
	return &SessionIssuer{repo: repo, validity: validity, now: time.Now}
}

// Issue mints a random session id and stores the record.
func (i *SessionIssuer) Issue(ctx context.Context, userID, username string) (string, error) {
	id, err := common.MakeRandHexString(sessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	now := i.now()
	session := &models.Session{
		ID:        id,
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(i.validity),
	}

	if err := i.repo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return id, nil
}

// Verify looks the session up and checks its expiry. Expired records are
// deleted on sight so the store does not accumulate dead sessions between
// sweeps.
func (i *SessionIssuer) Verify(ctx context.Context, proof string) (*Identity, error) {
	session, err := i.repo.Find(ctx, proof)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrProofInvalid
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if session.Expired(i.now()) {
		_ = i.repo.Delete(ctx, proof)
		return nil, common.ErrProofExpired
	}

	return &Identity{UserID: session.UserID, Username: session.Username}, nil
}

// Revoke deletes the session record. Unknown proofs are not an error.
func (i *SessionIssuer) Revoke(ctx context.Context, proof string) error {
	if err := i.repo.Delete(ctx, proof); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
