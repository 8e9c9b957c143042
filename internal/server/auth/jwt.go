package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/authgate/internal/common"
)

// Claims carries the registered claims plus the identity of the subject.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// TokenIssuer implements Issuer with stateless HS256 JWTs. There is no
// server-side state, so Revoke is a no-op: a token stays valid until its
// expiry horizon. Deployments that need logout-revocation should run the
// session strategy instead.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenIssuer creates a token issuer signing with secret, with proofs
// valid for the given duration.
func NewTokenIssuer(secret []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, validity: validity, now: time.Now}
}

// Issue signs a claims blob for the user, expiring at now+validity.
func (i *TokenIssuer) Issue(ctx context.Context, userID, username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID:   userID,
		Username: username,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates the token. Only HS256 is accepted; expired
// tokens map to common.ErrProofExpired, everything else that fails maps to
// common.ErrProofInvalid.
func (i *TokenIssuer) Verify(ctx context.Context, proof string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(proof, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrProofExpired
		}
		return nil, common.ErrProofInvalid
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrProofInvalid
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// Revoke does nothing for stateless tokens.
func (i *TokenIssuer) Revoke(ctx context.Context, proof string) error {
	return nil
}
