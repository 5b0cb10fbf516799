package models

import (
	"time"
)

// Like records that a user liked a post. The composite unique index
// makes concurrent duplicate likes impossible at the storage layer.
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:likes_user_post_ux;column:user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:likes_user_post_ux;index;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}

// View records that a user viewed a post. Recorded once per
// (user, post) pair and never removed.
type View struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:views_user_post_ux;column:user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:views_user_post_ux;index;column:post_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for View
func (View) TableName() string {
	return "views"
}

// Share records that a user shared a post to a destination. A user may
// share the same post to different destinations, but not the same
// destination twice.
type Share struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:shares_user_post_dest_ux;column:user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:shares_user_post_dest_ux;index;column:post_id"`
	SharedTo  string    `gorm:"type:varchar(50);not null;default:'';uniqueIndex:shares_user_post_dest_ux;column:shared_to"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Share
func (Share) TableName() string {
	return "shares"
}

// EngagementCounts aggregates per-post engagement. Counts are always
// derived from the join tables, never stored.
type EngagementCounts struct {
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	SharesCount   int64 `json:"shares_count"`
	ViewsCount    int64 `json:"views_count"`
}
