package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func pageContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/posts"+query, nil)
	return c
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		defaultPer  int
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{"defaults", "", 15, 1, 15, false},
		{"explicit", "?page=3&per_page=25", 15, 3, 25, false},
		{"page only", "?page=7", 20, 7, 20, false},
		{"per_page only", "?per_page=5", 20, 1, 5, false},
		{"zero page rejected", "?page=0", 15, 0, 0, true},
		{"negative page rejected", "?page=-2", 15, 0, 0, true},
		{"per_page over cap rejected", "?per_page=51", 15, 0, 0, true},
		{"non-numeric page rejected", "?page=abc", 15, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(pageContext(t, tt.query), tt.defaultPer)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePage(%q) expected error, got %+v", tt.query, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePage(%q) unexpected error: %v", tt.query, err)
			}
			if got.Page != tt.wantPage || got.PerPage != tt.wantPerPage {
				t.Errorf("ParsePage(%q) = {Page:%d PerPage:%d}, want {Page:%d PerPage:%d}",
					tt.query, got.Page, got.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	tests := []struct {
		page, perPage, want int
	}{
		{1, 15, 0},
		{2, 15, 15},
		{4, 20, 60},
		{1, 1, 0},
	}
	for _, tt := range tests {
		got := PageRequest{Page: tt.page, PerPage: tt.perPage}.Offset()
		if got != tt.want {
			t.Errorf("Offset(page=%d, perPage=%d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page        int
		perPage     int
		wantLast    int
		wantHasMore bool
	}{
		{"empty", 0, 1, 15, 0, false},
		{"exact single page", 15, 1, 15, 1, false},
		{"one over", 16, 1, 15, 2, true},
		{"middle page", 100, 3, 15, 7, true},
		{"last page", 100, 7, 15, 7, false},
		{"beyond the end", 10, 5, 15, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, PageRequest{Page: tt.page, PerPage: tt.perPage})
			if p.LastPage != tt.wantLast {
				t.Errorf("LastPage = %d, want %d", p.LastPage, tt.wantLast)
			}
			if p.HasMore != tt.wantHasMore {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tt.wantHasMore)
			}
			if p.Total != tt.total || p.CurrentPage != tt.page || p.PerPage != tt.perPage {
				t.Errorf("metadata echo mismatch: %+v", p)
			}
		})
	}
}
