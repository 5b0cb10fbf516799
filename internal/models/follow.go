package models

import (
	"time"
)

// Follow represents a directed follow edge. Edges are unique per
// ordered pair and irreflexive; (A,B) and (B,A) are independent rows.
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:follows_pair_ux;column:follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:follows_pair_ux;index;check:follower_id <> following_id;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower  *User `gorm:"foreignKey:FollowerID;references:ID"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "follows"
}
