package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.kind); got != tt.want {
			t.Errorf("StatusOf(%d) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("caption is required"), http.StatusBadRequest, "caption is required"},
		{"conflict", Conflict("You have already liked this post"), http.StatusBadRequest, "You have already liked this post"},
		{"forbidden", Forbidden("Unauthorized"), http.StatusForbidden, "Unauthorized"},
		{"not found", NotFound("Post not found"), http.StatusNotFound, "Post not found"},
		{"internal hides cause", Internal(errors.New("pq: connection refused")), http.StatusInternalServerError, "Internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest("GET", "/posts/1", nil)

			HandleError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("message = %q, want %q", body["message"], tt.wantMsg)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal error should wrap its cause")
	}
	if err.Error() == cause.Error() {
		t.Error("Error() should include the client message, not just the cause")
	}
}
