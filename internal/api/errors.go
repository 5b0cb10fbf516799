package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/pictora/pkg/logging"
)

// Kind classifies an API error. The set is closed: every failure a
// handler can report maps to exactly one kind.
type Kind int

const (
	// KindValidation is malformed or out-of-range input
	KindValidation Kind = iota
	// KindForbidden is an authenticated but not permitted request
	KindForbidden
	// KindNotFound is a missing or soft-deleted resource
	KindNotFound
	// KindConflict is a duplicate action (already liked, already following)
	KindConflict
	// KindInternal is an infrastructure failure
	KindInternal
)

// Error represents an API error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Forbidden creates an authorization error
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound creates a not-found error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict creates a duplicate-action error
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an infrastructure failure
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// StatusOf maps an error kind to its HTTP status. Conflicts are client
// errors, matching the validation status rather than 409.
func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes the error response envelope. Internal causes are
// logged, never leaked to the client.
func HandleError(c *gin.Context, err error) {
	if apiErr, ok := err.(*Error); ok {
		if apiErr.Kind == KindInternal {
			logging.WithComponent("api").Error("Request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(apiErr.Err))
		}
		c.JSON(StatusOf(apiErr.Kind), gin.H{"message": apiErr.Message})
		return
	}

	logging.WithComponent("api").Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
