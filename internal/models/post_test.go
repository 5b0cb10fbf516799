package models

import (
	"database/sql"
	"testing"
	"time"
)

func TestPostIsVisible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		post     Post
		expected bool
	}{
		{
			name: "published in the past",
			post: Post{
				PublishedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			},
			expected: true,
		},
		{
			name: "published exactly now",
			post: Post{
				PublishedAt: sql.NullTime{Time: now, Valid: true},
			},
			expected: true,
		},
		{
			name: "published in the future",
			post: Post{
				PublishedAt: sql.NullTime{Time: now.Add(time.Second), Valid: true},
			},
			expected: false,
		},
		{
			name:     "never published",
			post:     Post{},
			expected: false,
		},
		{
			name: "archived",
			post: Post{
				PublishedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
				IsArchived:  true,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.IsVisible(now); got != tt.expected {
				t.Errorf("IsVisible() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	admin := User{Role: RoleAdmin}
	follower := User{Role: RoleFollower}

	if !admin.IsAdmin() {
		t.Error("admin role should be admin")
	}
	if follower.IsAdmin() {
		t.Error("follower role should not be admin")
	}
}

func TestCommentIsReply(t *testing.T) {
	top := Comment{}
	if top.IsReply() {
		t.Error("comment without parent should not be a reply")
	}

	reply := Comment{ParentCommentID: sql.NullInt64{Int64: 7, Valid: true}}
	if !reply.IsReply() {
		t.Error("comment with parent should be a reply")
	}
}
