package db

import (
	"context"

	"github.com/pictora/pictora/internal/models"
)

// FollowRepository provides follow-graph database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Exists reports whether follower already follows following
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// Create creates a follow edge. Self-follows and duplicates are
// rejected by the handler before this is reached; the unique and check
// constraints back that up.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// Delete removes a follow edge. Removing a non-existent edge affects
// zero rows and is not an error.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// CountFollowers counts users following the given user
func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts users the given user follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// FollowingIDs returns the ids of every user the given user follows
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListFollowers returns one page of follow edges pointing at the user,
// with follower users preloaded.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID int64, offset, limit int) ([]models.Follow, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := base.
		Preload("Follower").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}

// ListFollowing returns one page of follow edges originating from the
// user, with followed users preloaded.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID int64, offset, limit int) ([]models.Follow, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := base.
		Preload("Following").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}
