// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"context"

	"socialgraph/internal/errors"
)

var (
	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	// It signals a storage fault, not a wrong password.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
)

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm, keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a self-describing salted hash from a plaintext password.
	// Every call uses a fresh random salt.
	Hash(ctx context.Context, password string) (string, error)

	// Verify recomputes the hash with the parameters embedded in encodedHash and
	// compares in constant time. Returns (false, nil) on mismatch and
	// ErrMalformedHash when encodedHash cannot be parsed.
	Verify(ctx context.Context, password, encodedHash string) (bool, error)

	// NeedsRehash reports whether encodedHash was produced by a legacy algorithm
	// or with parameters other than the configured ones.
	NeedsRehash(encodedHash string) bool

	// ValidatePasswordStrength checks a plaintext password against the configured policy.
	ValidatePasswordStrength(password string) error
}
