package objects

import (
	"time"

	"github.com/pictora/pictora/internal/models"
)

// ShareView is the share record shape returned by share endpoints
type ShareView struct {
	ID        int64     `json:"id"`
	User      *UserCard `json:"user,omitempty"`
	PostID    int64     `json:"post_id"`
	SharedTo  string    `json:"shared_to,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func BuildShare(s *models.Share) ShareView {
	view := ShareView{
		ID:        s.ID,
		PostID:    s.PostID,
		SharedTo:  s.SharedTo,
		CreatedAt: s.CreatedAt,
	}
	if s.User != nil {
		card := NewUserCard(s.User)
		view.User = &card
	}
	return view
}

func BuildShares(shares []models.Share) []ShareView {
	views := make([]ShareView, 0, len(shares))
	for i := range shares {
		views = append(views, BuildShare(&shares[i]))
	}
	return views
}
