package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// MaxCommentBodyLength is the upper bound for comment bodies
const MaxCommentBodyLength = 1000

// Comment represents a comment on a post. A comment with a non-null
// ParentCommentID is a reply; replies may not themselves have replies.
type Comment struct {
	ID              int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID          int64          `gorm:"not null;index;column:user_id"`
	PostID          int64          `gorm:"not null;index;column:post_id"`
	ParentCommentID sql.NullInt64  `gorm:"index;column:parent_comment_id"`
	Body            string         `gorm:"type:text;not null;column:body"`
	CreatedAt       time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt       time.Time      `gorm:"not null;column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index;column:deleted_at"`

	// Relationships
	User    *User     `gorm:"foreignKey:UserID;references:ID"`
	Replies []Comment `gorm:"foreignKey:ParentCommentID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsReply reports whether the comment is attached to a parent comment
func (c *Comment) IsReply() bool {
	return c.ParentCommentID.Valid
}
