package domain

import "time"

// Resource is a bookable unit with finite concurrent capacity.
// Capacity 1 means exclusive use; capacity N admits up to N concurrent
// pending/approved bookings for any instant.
type Resource struct {
	ID          string
	Name        string
	Description string
	Capacity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateResourceRequest holds parameters for creating a new resource.
type CreateResourceRequest struct {
	Name        string
	Description string
	Capacity    int
}

// Validate checks that the request is well-formed.
func (r *CreateResourceRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("resource name is required")
	}
	if r.Capacity < 1 {
		return ErrValidation("resource capacity must be at least 1, got %d", r.Capacity)
	}
	return nil
}
