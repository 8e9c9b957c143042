// Package common contains shared constants and sentinel errors used across
// the service components.
package common

// AuthHeaderName is the HTTP header that carries the proof on requests
// to protected routes, in the form "Bearer <proof>".
const AuthHeaderName = "Authorization"

// AuthCookieName is the fallback cookie used to deliver the proof to
// browser clients under the session strategy.
const AuthCookieName = "auth_proof"
