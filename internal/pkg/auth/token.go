// internal/pkg/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the payload of the backend-issued access token. The
// backend signs and validates tokens; this client only decodes them
// to know who is signed in and when the session expires.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// DecodeClaims extracts claims from a token without verifying the
// signature. Verification belongs to the issuer; a forged token only
// fools the local display, never the backend.
func DecodeClaims(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token's expiry has passed. Tokens
// without an expiry claim are treated as live.
func (c *Claims) Expired() bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(time.Now())
}
