package objects

import (
	"database/sql"
	"testing"
	"time"

	"github.com/pictora/pictora/internal/models"
)

func TestNewUserCard(t *testing.T) {
	u := &models.User{
		ID:         7,
		Name:       "ana",
		Role:       models.RoleAdmin,
		IsVerified: true,
		AvatarURL:  sql.NullString{String: "http://cdn/avatars/a.png", Valid: true},
		Bio:        sql.NullString{String: "hello", Valid: true},
	}

	card := NewUserCard(u)

	if card.ID != 7 || card.Name != "ana" {
		t.Fatalf("unexpected card: %+v", card)
	}
	if !card.IsAdmin || !card.IsVerified {
		t.Errorf("flags not carried: %+v", card)
	}
	if card.Avatar == nil || *card.Avatar != "http://cdn/avatars/a.png" {
		t.Errorf("avatar = %v, want url", card.Avatar)
	}
	if card.Bio == nil || *card.Bio != "hello" {
		t.Errorf("bio = %v, want hello", card.Bio)
	}
}

func TestNewUserCardNullFields(t *testing.T) {
	card := NewUserCard(&models.User{ID: 1, Name: "ben", Role: models.RoleFollower})
	if card.Avatar != nil {
		t.Errorf("null avatar should project to nil, got %v", *card.Avatar)
	}
	if card.Bio != nil {
		t.Errorf("null bio should project to nil, got %v", *card.Bio)
	}
	if card.IsAdmin {
		t.Error("follower projected as admin")
	}
}

func TestNewUserProfile(t *testing.T) {
	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &models.User{
		ID:         3,
		Name:       "ana",
		Email:      "ana@example.com",
		Role:       models.RoleFollower,
		IsPrivate:  true,
		LastSeenAt: sql.NullTime{Time: seen, Valid: true},
	}
	stats := UserStats{PostsCount: 4, FollowersCount: 10, FollowingCount: 2}

	profile := NewUserProfile(u, stats)

	if profile.Email != "ana@example.com" || !profile.IsPrivate {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.Stats != stats {
		t.Errorf("stats = %+v, want %+v", profile.Stats, stats)
	}
	if profile.LastSeenAt == nil || !profile.LastSeenAt.Equal(seen) {
		t.Errorf("last_seen_at = %v, want %v", profile.LastSeenAt, seen)
	}
	if profile.IsFollowing != nil || profile.IsFollowedBy != nil {
		t.Error("relationship flags should default to nil")
	}
}

func TestBuildMedia(t *testing.T) {
	media := []models.PostMedia{
		{ID: 1, MediaType: models.MediaTypeImage, MediaURL: "http://cdn/posts/a.jpg"},
		{
			ID:           2,
			MediaType:    models.MediaTypeVideo,
			MediaURL:     "http://cdn/posts/b.mp4",
			ThumbnailURL: sql.NullString{String: "http://cdn/posts/b_thumb.jpg", Valid: true},
		},
	}

	views := BuildMedia(media)

	if len(views) != 2 {
		t.Fatalf("len = %d, want 2", len(views))
	}
	if views[0].Type != models.MediaTypeImage || views[0].Thumbnail != nil {
		t.Errorf("image view wrong: %+v", views[0])
	}
	if views[1].Thumbnail == nil || *views[1].Thumbnail != "http://cdn/posts/b_thumb.jpg" {
		t.Errorf("video thumbnail missing: %+v", views[1])
	}
}
