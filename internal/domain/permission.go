package domain

import (
	"fmt"
	"time"
)

// Action is an operation that can be granted on a resource. Actions are not
// ordered: holding "manage" does not imply "book" or "view"; each must be
// granted explicitly.
type Action string

const (
	ActionView   Action = "view"
	ActionBook   Action = "book"
	ActionManage Action = "manage"
)

// ParseAction converts a string to an Action, returning an error if invalid.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionView, ActionBook, ActionManage:
		return Action(s), nil
	}
	return "", ErrValidation("invalid action %q: must be one of view, book, manage", s)
}

// TargetKind discriminates a permission target between a user and a group.
type TargetKind string

const (
	TargetUser  TargetKind = "user"
	TargetGroup TargetKind = "group"
)

// PermissionTarget identifies exactly one grantee: a user or a group, never
// both and never neither. The zero value is invalid; construct via
// UserTarget or GroupTarget so the XOR invariant holds by construction.
type PermissionTarget struct {
	kind TargetKind
	id   string
}

// UserTarget creates a target granting to a single user.
func UserTarget(userID string) PermissionTarget {
	return PermissionTarget{kind: TargetUser, id: userID}
}

// GroupTarget creates a target granting to a single group.
func GroupTarget(groupID string) PermissionTarget {
	return PermissionTarget{kind: TargetGroup, id: groupID}
}

// NewPermissionTarget builds a target from optional user and group IDs,
// enforcing that exactly one is set.
func NewPermissionTarget(userID, groupID string) (PermissionTarget, error) {
	switch {
	case userID != "" && groupID != "":
		return PermissionTarget{}, ErrValidation("permission must be assigned to either a user or a group, not both")
	case userID != "":
		return UserTarget(userID), nil
	case groupID != "":
		return GroupTarget(groupID), nil
	}
	return PermissionTarget{}, ErrValidation("permission must be assigned to either a user or a group")
}

// Kind returns the target discriminator.
func (t PermissionTarget) Kind() TargetKind { return t.kind }

// ID returns the grantee's ID.
func (t PermissionTarget) ID() string { return t.id }

// UserID returns the user ID and true when the target is a user.
func (t PermissionTarget) UserID() (string, bool) {
	if t.kind == TargetUser {
		return t.id, true
	}
	return "", false
}

// GroupID returns the group ID and true when the target is a group.
func (t PermissionTarget) GroupID() (string, bool) {
	if t.kind == TargetGroup {
		return t.id, true
	}
	return "", false
}

// IsZero reports whether the target was never set.
func (t PermissionTarget) IsZero() bool { return t.kind == "" }

func (t PermissionTarget) String() string {
	return fmt.Sprintf("%s:%s", t.kind, t.id)
}

// Permission grants one action on exactly one resource to exactly one target.
type Permission struct {
	ID         string
	Action     Action
	ResourceID string
	Target     PermissionTarget
	CreatedAt  time.Time
}

// CreatePermissionRequest holds parameters for creating or updating a
// permission. UserID and GroupID are mutually exclusive.
type CreatePermissionRequest struct {
	Action     string
	ResourceID string
	UserID     string
	GroupID    string
}

// Parse validates the request and returns the action and target.
func (r *CreatePermissionRequest) Parse() (Action, PermissionTarget, error) {
	action, err := ParseAction(r.Action)
	if err != nil {
		return "", PermissionTarget{}, err
	}
	if r.ResourceID == "" {
		return "", PermissionTarget{}, ErrValidation("resource_id is required")
	}
	target, err := NewPermissionTarget(r.UserID, r.GroupID)
	if err != nil {
		return "", PermissionTarget{}, err
	}
	return action, target, nil
}

// PermissionFilter narrows permission listings. Zero-valued fields match all.
type PermissionFilter struct {
	ResourceID string
	UserID     string
	GroupID    string
	Action     Action
}
