package auth

import (
	"slices"
	"time"
)

// Role tags a principal. Only RoleAdmin carries meaning today.
type Role string

// RoleAdmin grants access to every protected resource.
const RoleAdmin Role = "ADMIN"

// User represents a persisted account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Bio          string
	AvatarURL    string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the request-scoped identity for the account.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Roles: slices.Clone(u.Roles)}
}

// Principal describes the authenticated caller of a single request.
type Principal struct {
	ID    int64
	Email string
	Roles []Role
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// IsAdmin reports whether the principal carries RoleAdmin.
func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// NewUser carries the fields required to create an account.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	Roles        []Role
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
