package domain

import (
	"context"
	"time"
)

// UserRepository persists users and their group memberships.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, page PageRequest) ([]User, int64, error)
	Count(ctx context.Context) (int64, error)
	// ListGroupIDs returns the IDs of every group the user belongs to.
	// Permission resolution queries this join directly instead of loading
	// group objects eagerly.
	ListGroupIDs(ctx context.Context, userID string) ([]string, error)
}

// GroupRepository persists groups and membership links.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	GetByName(ctx context.Context, name string) (*Group, error)
	List(ctx context.Context, page PageRequest) ([]Group, int64, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, m *GroupMember) error
	RemoveMember(ctx context.Context, m *GroupMember) error
	ListMembers(ctx context.Context, groupID string, page PageRequest) ([]User, int64, error)
}

// ResourceRepository persists bookable resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *Resource) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	List(ctx context.Context, page PageRequest) ([]Resource, int64, error)
}

// PermissionRepository persists permission grants.
type PermissionRepository interface {
	Create(ctx context.Context, p *Permission) (*Permission, error)
	GetByID(ctx context.Context, id string) (*Permission, error)
	List(ctx context.Context, filter PermissionFilter, page PageRequest) ([]Permission, int64, error)
	Update(ctx context.Context, p *Permission) error
	Delete(ctx context.Context, id string) error
	// Exists reports whether a permission with the exact (resource, action,
	// target) tuple exists, optionally excluding one permission ID (used by
	// update duplicate checks).
	Exists(ctx context.Context, resourceID string, action Action, target PermissionTarget, excludeID string) (bool, error)
	// HasAny reports whether any of the given targets holds the action on
	// the resource. Resolution is purely additive: the union of a user's
	// direct grant and all of their groups' grants.
	HasAny(ctx context.Context, resourceID string, action Action, targets []PermissionTarget) (bool, error)
}

// EntityStore groups the operations the booking flow needs inside a single
// transaction: the availability read and the booking write must observe the
// same locked snapshot of the resource.
type EntityStore interface {
	// GetResourceForUpdate reads the resource after acquiring an exclusive
	// lock on its row. The lock is held until the enclosing transaction
	// commits or rolls back.
	GetResourceForUpdate(ctx context.Context, id string) (*Resource, error)
	GetResource(ctx context.Context, id string) (*Resource, error)
	GetResourceByName(ctx context.Context, name string) (*Resource, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	// ListConflicts returns the active bookings on the resource whose
	// half-open window overlaps [start, end), excluding excludeID if set.
	ListConflicts(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter, page PageRequest) ([]Booking, int64, error)
	InsertBooking(ctx context.Context, b *Booking) (*Booking, error)
	UpdateBooking(ctx context.Context, b *Booking) error
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus) error
	// ListExpiredPending returns pending bookings whose end time is before
	// the cutoff (consumed by the maintenance sweeper).
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error)
	// ListUserGroupIDs and HasAnyPermission mirror the permission reads so
	// authorization can run inside the same transaction as the write it
	// guards.
	ListUserGroupIDs(ctx context.Context, userID string) ([]string, error)
	HasAnyPermission(ctx context.Context, resourceID string, action Action, targets []PermissionTarget) (bool, error)
}

// TxRunner executes a function within a single store transaction. The
// EntityStore handed to fn is bound to that transaction; rollback on error
// or panic, commit otherwise. This is the concurrency controller's
// serialization boundary: resource locks acquired through
// GetResourceForUpdate are released at commit/rollback.
type TxRunner interface {
	InTx(ctx context.Context, fn func(store EntityStore) error) error
}
