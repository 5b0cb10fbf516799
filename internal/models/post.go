package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Media types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post represents a published piece of content
type Post struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      int64          `gorm:"not null;index;column:user_id"`
	Caption     string         `gorm:"type:text;not null;column:caption"`
	PublishedAt sql.NullTime   `gorm:"index;column:published_at"`
	IsArchived  bool           `gorm:"not null;default:false;column:is_archived"`
	CreatedAt   time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time      `gorm:"not null;column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index;column:deleted_at"`

	// Relationships
	User  *User       `gorm:"foreignKey:UserID;references:ID"`
	Media []PostMedia `gorm:"foreignKey:PostID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// IsVisible reports whether the post appears in public listings:
// published at or before now and not archived. Soft deletion is
// handled by the query layer.
func (p *Post) IsVisible(now time.Time) bool {
	if !p.PublishedAt.Valid {
		return false
	}
	if p.PublishedAt.Time.After(now) {
		return false
	}
	return !p.IsArchived
}

// PostMedia represents one media attachment of a post
type PostMedia struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	PostID       int64          `gorm:"not null;index;column:post_id"`
	MediaType    string         `gorm:"type:varchar(16);not null;column:media_type"`
	MediaURL     string         `gorm:"type:varchar(1024);not null;column:media_url"`
	ThumbnailURL sql.NullString `gorm:"type:varchar(1024);column:thumbnail_url"`
	Order        int            `gorm:"not null;default:0;column:display_order"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time      `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for PostMedia
func (PostMedia) TableName() string {
	return "post_media"
}
