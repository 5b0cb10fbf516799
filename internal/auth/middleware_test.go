package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyToken(t *testing.T) {
	secret := []byte("test-secret")

	token := signToken(t, secret, Claims{
		Role:     "admin",
		Verified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	p, err := VerifyToken(token, secret)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if p.UserID != 42 {
		t.Errorf("UserID = %d, want 42", p.UserID)
	}
	if p.Role != "admin" || !p.Verified {
		t.Errorf("unexpected principal: %+v", p)
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	secret := []byte("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage token",
			token: "not-a-token",
		},
		{
			name: "wrong secret",
			token: signToken(t, []byte("other-secret"), Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "42",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}),
		},
		{
			name: "expired",
			token: signToken(t, secret, Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "42",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				},
			}),
		},
		{
			name: "non-numeric subject",
			token: signToken(t, secret, Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "alice",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, secret); err == nil {
				t.Error("Expected verification to fail")
			}
		})
	}
}
