package api

import (
	"strings"
	"testing"
)

func TestValidateCaption(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		wantErr bool
	}{
		{"empty", "", true},
		{"plain", "a morning in the park", false},
		{"ascii at limit", strings.Repeat("x", 2500), false},
		{"ascii over limit", strings.Repeat("x", 2501), true},
		// Multibyte captions count characters, not bytes
		{"multibyte at limit", strings.Repeat("é", 2500), false},
		{"multibyte over limit", strings.Repeat("é", 2501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCaption(tt.caption)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCaption() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListingPageDefaults(t *testing.T) {
	tests := []struct {
		name       string
		defaultPer int
		want       int
	}{
		{"feed", feedPerPage, 15},
		{"likers", likersPerPage, 50},
		{"comments", commentsPerPage, 20},
		{"shares", sharesPerPage, 50},
		{"user search", usersPerPage, 15},
		{"follow lists", followListPerPage, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(pageContext(t, ""), tt.defaultPer)
			if err != nil {
				t.Fatalf("ParsePage() error = %v", err)
			}
			if got.PerPage != tt.want {
				t.Errorf("default per_page = %d, want %d", got.PerPage, tt.want)
			}
		})
	}
}
