package objects

import (
	"time"

	"github.com/pictora/pictora/internal/models"
)

// UserCard is the compact user projection used in feeds, likers,
// followers and search results.
type UserCard struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Avatar     *string `json:"avatar"`
	Bio        *string `json:"bio,omitempty"`
	IsVerified bool    `json:"is_verified"`
	IsAdmin    bool    `json:"is_admin"`
}

// NewUserCard projects a user to its card shape
func NewUserCard(u *models.User) UserCard {
	card := UserCard{
		ID:         u.ID,
		Name:       u.Name,
		IsVerified: u.IsVerified,
		IsAdmin:    u.IsAdmin(),
	}
	if u.AvatarURL.Valid {
		card.Avatar = &u.AvatarURL.String
	}
	if u.Bio.Valid {
		card.Bio = &u.Bio.String
	}
	return card
}

// UserStats are the counters attached to a full profile
type UserStats struct {
	PostsCount     int64 `json:"posts_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

// UserProfile is the full user projection. IsFollowing and
// IsFollowedBy are relative to the requesting viewer and omitted when
// the profile is the viewer's own.
type UserProfile struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Avatar       *string    `json:"avatar"`
	Bio          *string    `json:"bio"`
	Role         string     `json:"role"`
	IsAdmin      bool       `json:"is_admin"`
	IsVerified   bool       `json:"is_verified"`
	IsPrivate    bool       `json:"is_private"`
	Stats        UserStats  `json:"stats"`
	LastSeenAt   *time.Time `json:"last_seen_at"`
	IsFollowing  *bool      `json:"is_following,omitempty"`
	IsFollowedBy *bool      `json:"is_followed_by,omitempty"`
}

// NewUserProfile projects a user and its stats to the profile shape
func NewUserProfile(u *models.User, stats UserStats) UserProfile {
	profile := UserProfile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsAdmin:    u.IsAdmin(),
		IsVerified: u.IsVerified,
		IsPrivate:  u.IsPrivate,
		Stats:      stats,
	}
	if u.AvatarURL.Valid {
		profile.Avatar = &u.AvatarURL.String
	}
	if u.Bio.Valid {
		profile.Bio = &u.Bio.String
	}
	if u.LastSeenAt.Valid {
		profile.LastSeenAt = &u.LastSeenAt.Time
	}
	return profile
}
