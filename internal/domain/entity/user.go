// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is a registered account. PasswordHash holds a self-describing hash
// string and must never be logged or serialized into a response.
type User struct {
	ID           int64     // Database-assigned numeric identifier.
	Username     string    // Unique public handle.
	Email        string    // Unique login identifier.
	PasswordHash string    // PHC-encoded password hash (argon2id, or legacy bcrypt).
	CreatedAt    time.Time // Timestamp of account creation.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
