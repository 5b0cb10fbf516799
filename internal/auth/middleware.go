package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pictora/pictora/pkg/config"
)

// Claims are the token claims the external auth service issues. This
// service only verifies them; it never mints tokens.
type Claims struct {
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

// Middleware verifies the bearer token on each request and attaches
// the resulting principal. Requests without a valid token are rejected
// with 401.
func Middleware(cfg *config.AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid authorization header"})
			return
		}

		principal, err := VerifyToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// VerifyToken parses and verifies a bearer token and extracts the
// principal from its claims.
func VerifyToken(token string, secret []byte) (Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !parsed.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
		return Principal{}, fmt.Errorf("invalid subject claim: %q", claims.Subject)
	}

	return Principal{
		UserID:   userID,
		Role:     claims.Role,
		Verified: claims.Verified,
	}, nil
}
