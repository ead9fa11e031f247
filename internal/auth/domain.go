package auth

import (
	"time"

	"github.com/gestor-pos/gestor-pos/internal/shared"
)

// User represents an operator account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         shared.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public slice of a user account exposed to clients.
type Profile struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     shared.Role `json:"role"`
}

// Profile derives the public profile from the account.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
