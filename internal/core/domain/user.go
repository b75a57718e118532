package domain

import (
	"strings"
	"time"
)

// UserStatus is the lifecycle state of a console operator account.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User models a console operator (field staff or customer care).
type User struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	RoleID       string     `json:"role_id"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsActive reports whether the account may hold a session.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// EmailMatches compares emails case-insensitively.
func (u *User) EmailMatches(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// Role is a named bundle of permission tags assigned to users.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether the role carries the given permission tag.
// Permissions have set semantics; ordering carries no meaning.
func (r *Role) HasPermission(tag string) bool {
	for _, p := range r.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}
