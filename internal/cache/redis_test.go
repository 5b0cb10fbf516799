package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/pictora/pictora/internal/models"
)

func TestCountsKey(t *testing.T) {
	tests := []struct {
		name     string
		postID   int64
		expected string
	}{
		{"small id", 1, "post:counts:1"},
		{"large id", 9223372036854775807, "post:counts:9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountsKey(tt.postID); got != tt.expected {
				t.Errorf("CountsKey(%d) = %q, want %q", tt.postID, got, tt.expected)
			}
		})
	}
}

func TestDisabledCache(t *testing.T) {
	// A nil cache must be safe to call and report itself disabled.
	var c *Cache

	if _, err := c.GetCounts(1); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("GetCounts on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.SetCounts(1, &models.EngagementCounts{}); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("SetCounts on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.InvalidateCounts(1); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("InvalidateCounts on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Health(context.Background()); !errors.Is(err, ErrCacheDisabled) {
		t.Errorf("Health on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache should be nil, got %v", err)
	}
}
