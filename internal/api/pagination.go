package api

import (
	"github.com/gin-gonic/gin"
)

// Pagination bounds
const (
	MinPerPage = 1
	MaxPerPage = 50
)

// PageRequest is a validated pagination request
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset returns the row offset for the requested page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type pageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=50"`
}

// ParsePage reads page/per_page from the query string. Page defaults
// to 1; per_page defaults per endpoint and is capped at 50.
func ParsePage(c *gin.Context, defaultPerPage int) (PageRequest, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return PageRequest{}, Validation(validationMessage(err))
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = defaultPerPage
	}
	return PageRequest{Page: q.Page, PerPage: q.PerPage}, nil
}

// Pagination is the response metadata accompanying every listing
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
	HasMore     bool  `json:"has_more"`
}

// NewPagination computes pagination metadata for a page request. A
// page beyond the end yields empty data with accurate metadata, never
// an error.
func NewPagination(total int64, req PageRequest) Pagination {
	lastPage := int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	return Pagination{
		Total:       total,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		LastPage:    lastPage,
		HasMore:     req.Page < lastPage,
	}
}

// Envelope is the listing response shape
type Envelope struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// NewEnvelope wraps one page of data with its pagination metadata
func NewEnvelope(data interface{}, total int64, req PageRequest) Envelope {
	return Envelope{
		Data:       data,
		Pagination: NewPagination(total, req),
	}
}
