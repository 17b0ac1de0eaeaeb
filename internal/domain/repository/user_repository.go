// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"socialgraph/internal/domain/entity"
	"socialgraph/internal/errors"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByID reports whether a user with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Create persists a new user and fills in the generated ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePasswordHash replaces the stored hash of a user.
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}
