// Package auth implements proof issuance and verification. Two strategies
// are available behind one interface: stateless signed tokens (JWT) and
// server-side session records. A deployment runs exactly one of them.
package auth

import "context"

// Identity is the result of verifying a proof: the user it belongs to.
type Identity struct {
	UserID   string
	Username string
}

// Issuer mints and checks proofs of a successful login.
//
// Verify classifies every failure as common.ErrProofInvalid (malformed,
// tampered, unknown) or common.ErrProofExpired, and never panics on
// attacker-controlled input.
type Issuer interface {
	// Issue creates a new proof for the given user.
	Issue(ctx context.Context, userID, username string) (string, error)

	// Verify checks a proof and returns the identity it asserts.
	Verify(ctx context.Context, proof string) (*Identity, error)

	// Revoke invalidates a proof where the strategy supports it. It is
	// idempotent: revoking an unknown or already-revoked proof is not an
	// error.
	Revoke(ctx context.Context, proof string) error
}
