package usecase

import (
	"context"

	"socialgraph/internal/domain/entity"
)

// FollowUsecase manages the directed follow graph. An ordered pair is either
// absent or present; Follow and Unfollow are the only transitions.
type FollowUsecase interface {
	Follow(ctx context.Context, followerID, followedID int64) (*entity.Follow, error)
	Unfollow(ctx context.Context, followerID, followedID int64) error
	FollowerCount(ctx context.Context, userID int64) (int64, error)
	FollowingCount(ctx context.Context, userID int64) (int64, error)
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
}
