package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleFollower = "follower"
)

// User represents a registered account
type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Name         string         `gorm:"type:varchar(255);not null;column:name"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex;column:email"`
	PasswordHash string         `gorm:"type:varchar(255);not null;column:password"`
	Role         string         `gorm:"type:varchar(16);not null;default:'follower';column:role"`
	Bio          sql.NullString `gorm:"type:text;column:bio"`
	AvatarURL    sql.NullString `gorm:"type:varchar(1024);column:avatar_url"`
	IsVerified   bool           `gorm:"not null;default:false;column:is_verified"`
	IsPrivate    bool           `gorm:"not null;default:false;column:is_private"`
	FCMToken     sql.NullString `gorm:"type:varchar(512);column:fcm_token"`
	LastSeenAt   sql.NullTime   `gorm:"column:last_seen_at"`
	CreatedAt    time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt    time.Time      `gorm:"not null;column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at"`

	// Relationships
	Posts    []Post    `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
