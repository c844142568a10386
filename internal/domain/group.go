package domain

import "time"

// Group is a named collection of users. Groups own zero or more permissions;
// a user inherits every permission held by any group they belong to.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// GroupMember links a user to a group (many-to-many join).
type GroupMember struct {
	GroupID string
	UserID  string
}

// CreateGroupRequest holds parameters for creating a new group.
type CreateGroupRequest struct {
	Name        string
	Description string
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}
