package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload embedded in both access and refresh
// tokens. Access and refresh tokens minted for the same session carry an
// identical claim set; the authorization layer re-checks that on every
// request instead of assuming it.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	UserID   string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// Complete reports whether the claim set carries all the fields the
// authorization layer requires.
func (c *Claims) Complete() bool {
	return c.Username != "" && c.Email != "" && c.Role != ""
}

// SameIdentity reports whether two claim sets describe the same session
// identity (username, email and role all equal).
func (c *Claims) SameIdentity(other *Claims) bool {
	return c.Username == other.Username &&
		c.Email == other.Email &&
		c.Role == other.Role
}
