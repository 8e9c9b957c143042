// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (malformed or too-short input).
	ErrorValidation = errors.New("validation error")

	// Login errors. Unknown username and wrong password both resolve to
	// this value so responses cannot be used to enumerate usernames.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Proof lifecycle errors (tokens and sessions).
	ErrProofInvalid = errors.New("invalid proof")
	ErrProofExpired = errors.New("proof expired")
)
