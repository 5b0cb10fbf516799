package auth

import (
	"github.com/gin-gonic/gin"
)

// principalKey is the gin context key the middleware stores the
// principal under.
const principalKey = "auth.principal"

// Principal is the authenticated actor of a request, as asserted by
// the external auth service. Every operation that needs the acting
// user takes a Principal explicitly.
type Principal struct {
	UserID   int64
	Role     string
	Verified bool
}

// IsAdmin reports whether the principal has the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// FromContext returns the principal the auth middleware attached to
// the request, if any.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func setPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}
