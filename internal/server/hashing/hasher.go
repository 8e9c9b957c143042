// Package hashing provides one-way password hashing for the credential
// store. The interface keeps the gateway independent of the algorithm.
package hashing

// Hasher hashes plaintext passwords and verifies candidates against
// previously produced hashes. Implementations must salt per call, so two
// hashes of the same plaintext are never equal as strings.
type Hasher interface {
	// Hash returns a salted one-way hash of plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. It must not leak
	// timing information about how close the candidate is.
	Verify(plaintext, hash string) bool
}
