package objects

import (
	"database/sql"
	"testing"

	"github.com/pictora/pictora/internal/models"
)

func commentFixture(id int64, body string, user *models.User) models.Comment {
	return models.Comment{
		ID:     id,
		PostID: 1,
		Body:   body,
		User:   user,
	}
}

func TestBuildCommentTwoTierTree(t *testing.T) {
	author := &models.User{ID: 10, Name: "ana"}
	replier := &models.User{ID: 11, Name: "ben"}

	parent := commentFixture(1, "top level", author)
	reply1 := commentFixture(2, "first reply", replier)
	reply1.ParentCommentID = sql.NullInt64{Int64: 1, Valid: true}
	reply2 := commentFixture(3, "second reply", author)
	reply2.ParentCommentID = sql.NullInt64{Int64: 1, Valid: true}
	parent.Replies = []models.Comment{reply1, reply2}

	view := BuildComment(&parent)

	if view.ID != 1 || view.Body != "top level" {
		t.Fatalf("unexpected root projection: %+v", view)
	}
	if view.User.Name != "ana" {
		t.Errorf("root user = %q, want ana", view.User.Name)
	}
	if len(view.Replies) != 2 {
		t.Fatalf("len(Replies) = %d, want 2", len(view.Replies))
	}
	if view.Replies[0].Body != "first reply" || view.Replies[1].Body != "second reply" {
		t.Errorf("replies out of order: %q, %q", view.Replies[0].Body, view.Replies[1].Body)
	}
	if view.Replies[0].User.Name != "ben" {
		t.Errorf("reply user = %q, want ben", view.Replies[0].User.Name)
	}
}

func TestBuildCommentDepthBound(t *testing.T) {
	// A grandchild in the data must not leak into the projection
	grandchild := commentFixture(3, "too deep", nil)
	child := commentFixture(2, "reply", nil)
	child.Replies = []models.Comment{grandchild}
	root := commentFixture(1, "top", nil)
	root.Replies = []models.Comment{child}

	view := BuildComment(&root)

	if len(view.Replies) != 1 {
		t.Fatalf("len(Replies) = %d, want 1", len(view.Replies))
	}
	if len(view.Replies[0].Replies) != 0 {
		t.Errorf("reply carries %d nested replies, want 0", len(view.Replies[0].Replies))
	}
}

func TestBuildCommentRepliesNeverNil(t *testing.T) {
	c := commentFixture(1, "lonely", nil)
	view := BuildComment(&c)
	if view.Replies == nil {
		t.Error("Replies must be an empty slice, not nil, so it encodes as []")
	}
}

func TestBuildComments(t *testing.T) {
	comments := []models.Comment{
		commentFixture(1, "a", nil),
		commentFixture(2, "b", nil),
	}
	views := BuildComments(comments)
	if len(views) != 2 {
		t.Fatalf("len = %d, want 2", len(views))
	}
	if views[0].ID != 1 || views[1].ID != 2 {
		t.Errorf("order not preserved: %d, %d", views[0].ID, views[1].ID)
	}
}
