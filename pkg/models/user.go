package models

import "time"

// User roles.
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleManager = "manager"
	RoleUser    = "user"
)

// User is a console operator account.
type User struct {
	UserID     int        `json:"user_id"`
	Username   string     `json:"username" validate:"required,max=150"`
	Email      string     `json:"email" validate:"required,email,max=255"`
	Role       string     `json:"role" validate:"omitempty,oneof=admin analyst manager user"`
	Password   string     `json:"password,omitempty"`
	IsActive   bool       `json:"is_active"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	DateJoined *time.Time `json:"date_joined,omitempty"`
}

// Key returns the user identity.
func (u User) Key() int { return u.UserID }
