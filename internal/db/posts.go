package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pictora/pictora/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// feedOrder sorts listings newest published first. The id tiebreaker
// keeps posts published in the same instant in a stable order across
// pages.
const feedOrder = "published_at DESC, id DESC"

// visible restricts a query to posts that appear in public listings:
// published at or before now and not archived. GORM excludes
// soft-deleted rows by default.
func visible(q *gorm.DB) *gorm.DB {
	return q.Where("published_at IS NOT NULL AND published_at <= NOW()").
		Where("is_archived = ?", false)
}

// GetByID retrieves a post with its owner and ordered media
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Media", func(q *gorm.DB) *gorm.DB {
			return q.Order("display_order ASC")
		}).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a post together with its media rows in one transaction
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update persists changes to a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// SoftDelete marks a post deleted, preserving the row
func (r *PostRepository) SoftDelete(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Delete(post).Error
}

// ListVisible returns one page of visible posts ordered newest
// published first, with owners and ordered media preloaded. When
// authorIDs is non-nil the listing is restricted to those owners.
func (r *PostRepository) ListVisible(ctx context.Context, authorIDs []int64, offset, limit int) ([]models.Post, int64, error) {
	base := visible(r.db.WithContext(ctx).Model(&models.Post{}))
	if authorIDs != nil {
		base = base.Where("user_id IN ?", authorIDs)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := base.
		Preload("User").
		Preload("Media", func(q *gorm.DB) *gorm.DB {
			return q.Order("display_order ASC")
		}).
		Order(feedOrder).
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ViewCountsPerPost returns every post id with its total view count,
// used by the analytics endpoint.
func (r *PostRepository) ViewCountsPerPost(ctx context.Context) ([]PostViewCount, error) {
	var rows []PostViewCount
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.id AS post_id, posts.caption, COUNT(views.id) AS views_count").
		Joins("LEFT JOIN views ON views.post_id = posts.id").
		Group("posts.id, posts.caption").
		Order("posts.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PostViewCount pairs a post with its view count
type PostViewCount struct {
	PostID     int64  `gorm:"column:post_id" json:"post_id"`
	Caption    string `gorm:"column:caption" json:"caption"`
	ViewsCount int64  `gorm:"column:views_count" json:"views_count"`
}
