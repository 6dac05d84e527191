package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the client can learn from a bearer token locally.
type TokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is not after now.
func (c TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseTokenClaims decodes a JWT without verifying its signature. The
// backend stays the authority; the client only uses the claims to drop an
// obviously expired session early.
func ParseTokenClaims(token string) (TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, fmt.Errorf("parse token: %w", err)
	}

	var tc TokenClaims
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		tc.Subject = sub
	} else if id, ok := claims["id"].(string); ok {
		tc.Subject = id
	}
	if role, ok := claims["role"].(string); ok {
		tc.Role = role
	}
	return tc, nil
}
