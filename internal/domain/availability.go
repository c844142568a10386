package domain

import "time"

// BookingWindow is the minimal view of a conflicting booking exposed to
// privileged callers.
type BookingWindow struct {
	Status    BookingStatus
	StartTime time.Time
	EndTime   time.Time
}

// AvailabilityResult reports whether a resource can accept a booking for a
// requested window, and how much capacity remains. Conflicts carries the
// conflicting windows; callers decide how much of it to expose.
type AvailabilityResult struct {
	Available         bool
	ResourceID        string
	ResourceName      string
	Capacity          int
	AvailableCapacity int
	ConflictCount     int
	Reason            string
	Conflicts         []BookingWindow
}

// AvailabilityRequest holds parameters for an availability check. The
// resource may be addressed by ID or by name; ExcludeBookingID removes one
// booking from the conflict set (self-exclusion during reschedules).
type AvailabilityRequest struct {
	ResourceID       string
	ResourceName     string
	StartTime        time.Time
	EndTime          time.Time
	ExcludeBookingID string
}

// Validate checks that the request is well-formed.
func (r *AvailabilityRequest) Validate() error {
	if r.ResourceID == "" && r.ResourceName == "" {
		return ErrValidation("either resource_id or resource_name must be provided")
	}
	return ValidateWindow(r.StartTime, r.EndTime)
}
