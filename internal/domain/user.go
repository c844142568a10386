package domain

import (
	"strings"
	"time"
)

// User represents a registered account. Superusers bypass all permission
// checks; everyone else is subject to Permission rows (direct or via groups).
type User struct {
	ID             string
	Email          string
	Username       string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateUserRequest holds parameters for registering a new user.
type CreateUserRequest struct {
	Email       string
	Username    string
	Password    string
	IsSuperuser bool
}

// Validate checks that the request is well-formed.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return ErrValidation("a valid email is required")
	}
	if strings.TrimSpace(r.Username) == "" {
		return ErrValidation("username is required")
	}
	if len(r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	return nil
}
