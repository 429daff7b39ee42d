package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the authorization tier carried in the token
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a raw claim or flag value into a known Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// Claims represents the token payload.
// Registered claims carry jti, sub, iss, aud, iat, nbf and exp.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// isActive reports whether nbf has been reached; an absent nbf means always active
func (c *Claims) isActive(now time.Time, skew time.Duration) bool {
	if c.NotBefore == nil {
		return true
	}
	return !now.Add(skew).Before(c.NotBefore.Time)
}

// hasAudience requires a single audience equal to expected
func (c *Claims) hasAudience(expected string) bool {
	return len(c.Audience) == 1 && c.Audience[0] == expected
}

// isExpired reports whether exp has passed; an absent exp is never usable
func (c *Claims) isExpired(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !now.Add(-skew).Before(c.ExpiresAt.Time)
}

// audience returns the single audience value, or "" when absent
func (c *Claims) audience() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}
