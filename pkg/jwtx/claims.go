package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fallback token lifetime when a service doesn't
// configure one. Kept short; there is no refresh flow, clients re-login.
const DefaultTokenTTL = 1 * time.Hour

// Claims is the payload carried inside every signed token. The wire shape
// is {"sub", "roles", "iat", "exp"} and must stay additive: every verifier
// in the fleet parses this exact structure.
type Claims struct {
	jwt.RegisteredClaims

	// Roles granted to the subject, e.g. ["ROLE_USER", "ROLE_ADMIN"].
	// Order is preserved for display; authorization is set membership.
	Roles []string `json:"roles,omitempty"`
}

// NewClaims builds minimally-correct claims for a subject.
func NewClaims(subject string, roles []string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}
}

// ValidateExpiry ensures the token hasn't expired. A token whose exp equals
// the current second is already expired: a token is live only while
// exp is strictly after now. This boundary is relied on by every service,
// don't loosen it here.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil || !c.ExpiresAt.After(now) {
		return ErrExpired
	}
	return nil
}

// HasRole reports whether the claims contain the exact role string.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
