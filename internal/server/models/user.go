// Package models holds the server-side domain records persisted by the
// repositories.
package models

// User is a registered account. PasswordHash holds a bcrypt hash and is
// never serialized outward.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}
