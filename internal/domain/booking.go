package domain

import (
	"time"
)

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// validTransitions is the single source of truth for the booking state
// machine. Rejected and cancelled are terminal; a status never transitions
// to itself.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(validTransitions[s]) == 0
}

func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus converts a string to a BookingStatus, returning an
// error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", ErrValidation("invalid booking status %q", s)
	}
	return status, nil
}

// ActiveStatuses are the statuses that occupy resource capacity. Rejected
// and cancelled bookings never conflict.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusApproved}
}

// Booking reserves a resource for a half-open time window [StartTime, EndTime).
// Bookings are never hard-deleted; cancellation and rejection are terminal
// statuses, not row removal.
type Booking struct {
	ID         string
	UserID     string
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Window returns the booking's time window.
func (b *Booking) Window() (start, end time.Time) {
	return b.StartTime, b.EndTime
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. The single symmetric predicate covers all four
// overlap shapes; bookings that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateWindow rejects malformed time windows at the input boundary.
func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrValidation("start_time and end_time are required")
	}
	if !start.Before(end) {
		return ErrValidation("start_time %s must be before end_time %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// CreateBookingRequest holds parameters for requesting a new booking.
type CreateBookingRequest struct {
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
}

// Validate checks that the request is well-formed.
func (r *CreateBookingRequest) Validate() error {
	if r.ResourceID == "" {
		return ErrValidation("resource_id is required")
	}
	return ValidateWindow(r.StartTime, r.EndTime)
}

// UpdateBookingRequest holds parameters for rescheduling an existing booking.
type UpdateBookingRequest struct {
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
}

// Validate checks that the request is well-formed.
func (r *UpdateBookingRequest) Validate() error {
	if r.ResourceID == "" {
		return ErrValidation("resource_id is required")
	}
	return ValidateWindow(r.StartTime, r.EndTime)
}

// BookingFilter narrows booking listings. Zero-valued fields match all.
type BookingFilter struct {
	UserID     string
	ResourceID string
	Statuses   []BookingStatus
}
