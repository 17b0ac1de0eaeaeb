package postgres

import (
	"context"

	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/repository"
	"socialgraph/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// followRepository implements the repository.FollowRepository interface.
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository is the constructor for followRepository.
func NewFollowRepository(db *gorm.DB) repository.FollowRepository {
	return &followRepository{
		db: db,
	}
}

// Exists reports whether the (follower, followed) edge is present.
func (repo *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to check follow existence")
	}

	return count > 0, nil
}

// Create persists a new follow edge.
func (repo *followRepository) Create(ctx context.Context, follow *entity.Follow) error {
	followM := fromFollowDomain(follow)

	if err := repo.db.WithContext(ctx).Create(followM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateFollow
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrFollowUserMissing
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create follow")
	}

	follow.CreatedAt = followM.CreatedAt

	return nil
}

// Delete removes the edge; zero affected rows means it was not present.
func (repo *followRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	result := repo.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.FollowModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete follow")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFollowNotFound
	}

	return nil
}

// CountFollowers counts the users following userID.
func (repo *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("followed_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count followers")
	}

	return count, nil
}

// CountFollowing counts the users userID follows.
func (repo *followRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.FollowModel{}).
		Where("follower_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to count following")
	}

	return count, nil
}

// --- Mapper Functions ---

func fromFollowDomain(data *entity.Follow) *model.FollowModel {
	if data == nil {
		return nil
	}

	return &model.FollowModel{
		FollowerID: data.FollowerID,
		FollowedID: data.FollowedID,
		CreatedAt:  data.CreatedAt,
	}
}
