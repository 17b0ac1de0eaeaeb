package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/repository"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	followOperation   = "follow"
	unfollowOperation = "unfollow"

	followOutcomeSelf     = "self"
	followOutcomeConflict = "conflict"
	followOutcomeNotFound = "not_found"
)

// followService implements the FollowUsecase interface.
type followService struct {
	txManager  repository.TransactionManager
	followRepo repository.FollowRepository
	metrics    service.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// FollowServiceParams holds dependencies for FollowService, injected by Fx.
type FollowServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	FollowRepo repository.FollowRepository
	Metrics    service.Metrics
	Logger     *slog.Logger
}

// NewFollowService is the constructor for followService.
func NewFollowService(params FollowServiceParams) usecase.FollowUsecase {
	return &followService{
		txManager:  params.TxManager,
		followRepo: params.FollowRepo,
		metrics:    params.Metrics,
		logger:     params.Logger,
		now:        time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *followService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Follow creates the followerID -> followedID edge.
// The primary key on the pair backs up the existence check under concurrency.
func (srv *followService) Follow(ctx context.Context, followerID, followedID int64) (*entity.Follow, error) {
	if followerID == followedID {
		srv.metrics.ObserveFollowOperation(followOperation, followOutcomeSelf)

		return nil, domainerrors.ErrSelfFollow
	}

	follow := &entity.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  srv.now(),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		exists, err := repoFactory.UserRepo().ExistsByID(ctx, followedID)
		if err != nil {
			return errors.Wrap(err, "failed to check follow target")
		}
		if !exists {
			return domainerrors.ErrUserNotFound
		}

		followRepo := repoFactory.FollowRepo()
		present, err := followRepo.Exists(ctx, followerID, followedID)
		if err != nil {
			return errors.Wrap(err, "failed to check follow existence")
		}
		if present {
			return domainerrors.ErrAlreadyFollowing
		}

		if err := followRepo.Create(ctx, follow); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateFollow):
				return domainerrors.ErrAlreadyFollowing
			case errors.Is(err, repository.ErrFollowUserMissing):
				return domainerrors.ErrUserNotFound
			default:
				return errors.Wrap(err, "failed to create follow")
			}
		}

		return nil
	})
	if err != nil {
		srv.metrics.ObserveFollowOperation(followOperation, followOutcome(err))
		srv.log(ctx).Warn("Follow failed", slog.Int64("followerID", followerID), slog.Int64("followedID", followedID), slog.Any("error", err))

		return nil, err
	}

	srv.metrics.ObserveFollowOperation(followOperation, service.OutcomeSuccess)
	srv.log(ctx).Info("User followed", slog.Int64("followerID", followerID), slog.Int64("followedID", followedID))

	return follow, nil
}

// Unfollow removes the followerID -> followedID edge.
// The check and delete share a transaction, as in Follow.
func (srv *followService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		srv.metrics.ObserveFollowOperation(unfollowOperation, followOutcomeSelf)

		return domainerrors.ErrSelfUnfollow
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return unfollow(ctx, repoFactory.FollowRepo(), followerID, followedID)
	})
	if err != nil {
		srv.metrics.ObserveFollowOperation(unfollowOperation, followOutcome(err))
		srv.log(ctx).Warn("Unfollow failed", slog.Int64("followerID", followerID), slog.Int64("followedID", followedID), slog.Any("error", err))

		return err
	}

	srv.metrics.ObserveFollowOperation(unfollowOperation, service.OutcomeSuccess)
	srv.log(ctx).Info("User unfollowed", slog.Int64("followerID", followerID), slog.Int64("followedID", followedID))

	return nil
}

func unfollow(ctx context.Context, followRepo repository.FollowRepository, followerID, followedID int64) error {
	present, err := followRepo.Exists(ctx, followerID, followedID)
	if err != nil {
		return errors.Wrap(err, "failed to check follow existence")
	}
	if !present {
		return domainerrors.ErrNotFollowing
	}

	// A concurrent unfollow may have removed the edge since the check.
	if err := followRepo.Delete(ctx, followerID, followedID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return domainerrors.ErrNotFollowing
		}

		return errors.Wrap(err, "failed to delete follow")
	}

	return nil
}

// FollowerCount returns how many users follow userID.
func (srv *followService) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	count, err := srv.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count followers")
	}

	return count, nil
}

// FollowingCount returns how many users userID follows.
func (srv *followService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	count, err := srv.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count following")
	}

	return count, nil
}

// IsFollowing reports whether followerID currently follows followedID.
func (srv *followService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	present, err := srv.followRepo.Exists(ctx, followerID, followedID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check follow existence")
	}

	return present, nil
}

func followOutcome(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrAlreadyFollowing), errors.Is(err, domainerrors.ErrNotFollowing):
		return followOutcomeConflict
	case errors.Is(err, domainerrors.ErrUserNotFound):
		return followOutcomeNotFound
	default:
		return service.OutcomeFailure
	}
}
