package user

import (
	"database/sql"
	"time"
)

// Role is assigned at registration and never changes afterwards; it is
// embedded in every token minted for the identity.
type Role string

const (
	RoleRegular Role = "Regular"
	RoleAdmin   Role = "Admin"
)

type User struct {
	ID           string         `json:"id" db:"id"`
	Username     string         `json:"username" db:"username"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         Role           `json:"role" db:"role"`

	// RefreshToken is the single server-side session slot: set at login
	// (overwriting any prior value), cleared at logout, consulted only to
	// find the user during logout. It is never part of the per-request
	// authorization decision.
	RefreshToken sql.NullString `json:"-" db:"refresh_token"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Info is the caller-facing projection of a user record.
type Info struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

func (u *User) Info() Info {
	return Info{Username: u.Username, Email: u.Email, Role: u.Role}
}
