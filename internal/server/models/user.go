// Package models defines the persistent record types of the server.
package models

import "time"

// User is a registered account. Records are created at registration and
// never mutated or deleted afterwards.
//
// The JSON tags double as the on-disk format of the file-backed credential
// store, so renaming them is a breaking change for existing stores.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
