package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pictora/pictora/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID. Soft-deleted users are not returned.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update persists changes to a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Search finds users whose name or email contains the query string
func (r *UserRepository) Search(ctx context.Context, q string, offset, limit int) ([]models.User, int64, error) {
	pattern := "%" + q + "%"
	base := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := base.Order("name ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountVisiblePosts counts a user's published, non-archived posts
func (r *UserRepository) CountVisiblePosts(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ? AND is_archived = ?", userID, false).
		Where("published_at IS NOT NULL AND published_at <= NOW()").
		Count(&count).Error
	return count, err
}

// UpdateFCMToken stores a user's device token for push delivery
func (r *UserRepository) UpdateFCMToken(ctx context.Context, userID int64, token string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("fcm_token", token).Error
}

// FollowerDeviceTokens returns the registered device tokens of all
// users with the follower role.
func (r *UserRepository) FollowerDeviceTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND fcm_token IS NOT NULL AND fcm_token <> ''", models.RoleFollower).
		Pluck("fcm_token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeviceToken returns one user's registered device token, or "" when
// the user has none.
func (r *UserRepository) DeviceToken(ctx context.Context, userID int64) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("fcm_token").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.FCMToken.String, nil
}
