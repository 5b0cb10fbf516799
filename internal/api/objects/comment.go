package objects

import (
	"time"

	"github.com/pictora/pictora/internal/models"
)

// ReplyDepth is how many levels below a top-level comment get
// rendered. The schema permits deeper chains but creation rejects
// them, so one level is always total.
const ReplyDepth = 1

// CommentView is the comment projection. Replies share the same shape
// as their parent.
type CommentView struct {
	ID        int64         `json:"id"`
	User      UserCard      `json:"user"`
	Body      string        `json:"body"`
	Replies   []CommentView `json:"replies"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BuildComment projects a comment and its replies down to ReplyDepth
func BuildComment(c *models.Comment) CommentView {
	return buildCommentTree(c, ReplyDepth)
}

// BuildComments projects a page of comments in order
func BuildComments(comments []models.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, BuildComment(&comments[i]))
	}
	return views
}

func buildCommentTree(c *models.Comment, depth int) CommentView {
	view := CommentView{
		ID:        c.ID,
		Body:      c.Body,
		Replies:   []CommentView{},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.User != nil {
		view.User = NewUserCard(c.User)
	}
	if depth > 0 {
		for i := range c.Replies {
			view.Replies = append(view.Replies, buildCommentTree(&c.Replies[i], depth-1))
		}
	}
	return view
}
