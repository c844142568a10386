// Package booking implements the booking lifecycle: availability checking,
// creation, rescheduling, and status transitions.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// checkAvailability computes the conflict set for a window on a resource and
// derives the capacity verdict. It runs against whatever store it is given:
// the read pool for advisory checks, or a transaction-bound store when it
// guards a write.
func checkAvailability(ctx context.Context, store domain.EntityStore, res *domain.Resource, start, end time.Time, excludeID string) (*domain.AvailabilityResult, error) {
	conflicts, err := store.ListConflicts(ctx, res.ID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	result := &domain.AvailabilityResult{
		ResourceID:        res.ID,
		ResourceName:      res.Name,
		Capacity:          res.Capacity,
		ConflictCount:     len(conflicts),
		AvailableCapacity: res.Capacity - len(conflicts),
	}
	if result.AvailableCapacity < 0 {
		result.AvailableCapacity = 0
	}
	for _, c := range conflicts {
		result.Conflicts = append(result.Conflicts, domain.BookingWindow{
			Status:    c.Status,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	}

	// The window fits as long as the overlap count stays below capacity.
	result.Available = len(conflicts) < res.Capacity
	if !result.Available {
		if res.Capacity == 1 {
			start, end := conflicts[0].Window()
			result.Reason = fmt.Sprintf("resource %q is already booked from %s to %s",
				res.Name,
				start.UTC().Format(time.RFC3339),
				end.UTC().Format(time.RFC3339))
		} else {
			result.Reason = fmt.Sprintf("resource %q is fully booked: %d overlapping bookings for capacity %d",
				res.Name, len(conflicts), res.Capacity)
		}
	}
	return result, nil
}

// resolveResource loads a resource by ID or, failing that, by name.
func resolveResource(ctx context.Context, store domain.EntityStore, req *domain.AvailabilityRequest) (*domain.Resource, error) {
	if req.ResourceID != "" {
		return store.GetResource(ctx, req.ResourceID)
	}
	return store.GetResourceByName(ctx, req.ResourceName)
}
