package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pictora/pictora/internal/models"
)

// EngagementRepository provides like, view and share operations
type EngagementRepository struct {
	*Repository
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(repo *Repository) *EngagementRepository {
	return &EngagementRepository{Repository: repo}
}

// LikeExists reports whether the user has liked the post
func (r *EngagementRepository) LikeExists(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CreateLike records a like
func (r *EngagementRepository) CreateLike(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// DeleteLike removes a like. Removing a like that does not exist
// affects zero rows and is not an error.
func (r *EngagementRepository) DeleteLike(ctx context.Context, userID, postID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
}

// CountLikes counts likes on a post
func (r *EngagementRepository) CountLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// ListLikers returns one page of users who liked a post, newest like
// first.
func (r *EngagementRepository) ListLikers(ctx context.Context, postID int64, offset, limit int) ([]models.Like, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []models.Like
	err := base.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// RecordView records a view once per (user, post) pair. Replays are
// silently ignored.
func (r *EngagementRepository) RecordView(ctx context.Context, userID, postID int64) error {
	view := models.View{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&view).Error
}

// CountViews counts views on a post
func (r *EngagementRepository) CountViews(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.View{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// ShareExists reports whether the user already shared the post to the
// same destination
func (r *EngagementRepository) ShareExists(ctx context.Context, userID, postID int64, sharedTo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("user_id = ? AND post_id = ? AND shared_to = ?", userID, postID, sharedTo).
		Count(&count).Error
	return count > 0, err
}

// CreateShare records a share
func (r *EngagementRepository) CreateShare(ctx context.Context, share *models.Share) error {
	return r.db.WithContext(ctx).Create(share).Error
}

// GetShareByID retrieves a share by ID
func (r *EngagementRepository) GetShareByID(ctx context.Context, id int64) (*models.Share, error) {
	var share models.Share
	if err := r.db.WithContext(ctx).First(&share, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &share, nil
}

// DeleteShare removes a share
func (r *EngagementRepository) DeleteShare(ctx context.Context, share *models.Share) error {
	return r.db.WithContext(ctx).Delete(share).Error
}

// CountShares counts shares of a post
func (r *EngagementRepository) CountShares(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// ListShares returns one page of a post's shares, newest first, with
// sharing users preloaded.
func (r *EngagementRepository) ListShares(ctx context.Context, postID int64, offset, limit int) ([]models.Share, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Share{}).
		Where("post_id = ?", postID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shares []models.Share
	err := base.
		Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&shares).Error
	if err != nil {
		return nil, 0, err
	}
	return shares, total, nil
}
