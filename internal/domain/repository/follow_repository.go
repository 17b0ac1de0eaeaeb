package repository

import (
	"context"

	"socialgraph/internal/domain/entity"
	"socialgraph/internal/errors"
)

// Domain-specific errors for follow persistence.
var (
	// ErrFollowNotFound is returned when no edge exists for the pair.
	ErrFollowNotFound = errors.New("follow not found")
	// ErrDuplicateFollow is returned when the (follower, followed) pair already exists.
	ErrDuplicateFollow = errors.New("follow already exists")
	// ErrFollowUserMissing is returned when either endpoint of the edge does not exist.
	ErrFollowUserMissing = errors.New("follow references a missing user")
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	// Exists reports whether followerID currently follows followedID.
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)

	// Create inserts a new edge. A concurrent duplicate yields ErrDuplicateFollow.
	Create(ctx context.Context, follow *entity.Follow) error

	// Delete removes the edge. Returns ErrFollowNotFound if nothing was deleted.
	Delete(ctx context.Context, followerID, followedID int64) error

	// CountFollowers counts edges whose followed side is userID.
	CountFollowers(ctx context.Context, userID int64) (int64, error)

	// CountFollowing counts edges whose follower side is userID.
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}
