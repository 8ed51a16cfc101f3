package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the subset of the backend-issued JWT the storefront reads.
type AccessTokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim, which the backend sets to the user id.
func (c *AccessTokenClaims) UserID() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Subject)
}

func (c *AccessTokenClaims) IsAdmin() bool {
	return c != nil && strings.EqualFold(strings.TrimPrefix(c.Role, "ROLE_"), "ADMIN")
}
