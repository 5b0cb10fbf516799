package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pictora/pictora/internal/models"
)

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetByIDForPost retrieves a comment scoped to one post. Used when
// validating reply parents so a reply can never attach across posts.
func (r *CommentRepository) GetByIDForPost(ctx context.Context, id, postID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ?", id, postID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// GetByIDExpanded retrieves a comment with its author and its replies,
// reply authors included.
func (r *CommentRepository) GetByIDExpanded(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update persists changes to a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// SoftDelete marks a comment deleted. The row is preserved so replies
// that point at it keep a valid parent.
func (r *CommentRepository) SoftDelete(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Delete(comment).Error
}

// ListTopLevel returns one page of a post's top-level comments, newest
// first, each with its author and full reply list. Replies are not
// paginated.
func (r *CommentRepository) ListTopLevel(ctx context.Context, postID int64, offset, limit int) ([]models.Comment, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := base.
		Preload("User").
		Preload("Replies", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// CountForPost counts all comments on a post, replies included
func (r *CommentRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
