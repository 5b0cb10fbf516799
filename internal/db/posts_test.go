package db

import (
	"strings"
	"testing"
)

func TestFeedOrderHasTiebreaker(t *testing.T) {
	if !strings.HasPrefix(feedOrder, "published_at DESC") {
		t.Errorf("feedOrder = %q, want newest published first", feedOrder)
	}
	if !strings.HasSuffix(feedOrder, "id DESC") {
		t.Errorf("feedOrder = %q, want an id tiebreaker so same-instant posts keep a stable order", feedOrder)
	}
}
