package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pictora/pictora/internal/auth"
)

// requirePrincipal returns the authenticated principal or rejects the
// request. The auth middleware guarantees one on every protected
// route; this is the backstop.
func requirePrincipal(c *gin.Context) (auth.Principal, bool) {
	p, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return auth.Principal{}, false
	}
	return p, true
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, Validation("Invalid " + name + " parameter")
	}
	return id, nil
}
