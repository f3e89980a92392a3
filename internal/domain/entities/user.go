package entities

import (
	"time"
)

// Role determines which administrative endpoints a user may reach.
// File access is never derived from the role; it always goes through
// the access resolution in the usecase layer.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account with its storage accounting.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	StorageUsed  int64      `json:"storage_used"`
	StorageLimit int64      `json:"storage_limit"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// StorageAvailable returns how many bytes the user may still consume.
func (u *User) StorageAvailable() int64 {
	if u.StorageUsed >= u.StorageLimit {
		return 0
	}
	return u.StorageLimit - u.StorageUsed
}

// Principal is the authenticated identity attached to a request after
// the auth middleware resolves the bearer token.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Role     Role
	IsActive bool
}
