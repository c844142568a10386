package booking

import (
	"context"
	"log/slog"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
	"github.com/ViktorMash/resource-booking-system/internal/service/security"
)

// Service orchestrates the booking lifecycle. Every write runs inside a
// single transaction that locks the resource first, so the permission check,
// the availability check, and the write all observe one consistent snapshot.
type Service struct {
	runner domain.TxRunner
	reads  domain.EntityStore
	logger *slog.Logger
}

// NewService creates a booking Service. reads should be backed by the read
// pool; runner by the write pool.
func NewService(runner domain.TxRunner, reads domain.EntityStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{runner: runner, reads: reads, logger: logger}
}

// Create books a resource for the caller. Inside one transaction it locks
// the resource, verifies the caller holds the book action, checks the
// window against the conflict set, and inserts the booking as pending.
func (s *Service) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Booking
	err := s.runner.InTx(ctx, func(store domain.EntityStore) error {
		res, err := store.GetResourceForUpdate(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if err := security.Authorize(ctx, store, user, res.ID, domain.ActionBook); err != nil {
			return err
		}

		avail, err := checkAvailability(ctx, store, res, req.StartTime, req.EndTime, "")
		if err != nil {
			return err
		}
		if !avail.Available {
			return domain.ErrConflict("%s", avail.Reason)
		}

		created, err = store.InsertBooking(ctx, &domain.Booking{
			ID:         domain.NewID(),
			UserID:     user.ID,
			ResourceID: res.ID,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Status:     domain.StatusPending,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"booking_id", created.ID,
		"resource_id", created.ResourceID,
		"user_id", created.UserID,
		"start", created.StartTime,
		"end", created.EndTime)
	return created, nil
}

// Update reschedules a booking, possibly onto a different resource. Only the
// owner or a superuser may reschedule; the book action is re-checked only
// when the booking moves to a new resource. The booking itself is excluded
// from the conflict set so it never collides with its own old window. A
// reschedule that actually changes the resource or the window drops any
// earlier approval: the booking goes back to pending.
func (s *Service) Update(ctx context.Context, id string, req *domain.UpdateBookingRequest) (*domain.Booking, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Booking
	err := s.runner.InTx(ctx, func(store domain.EntityStore) error {
		b, err := store.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		if b.UserID != user.ID && !user.IsSuperuser {
			return domain.ErrAccessDenied("only the booking owner can reschedule it")
		}
		if b.Status.IsTerminal() {
			return domain.ErrValidation("a %s booking cannot be rescheduled", b.Status)
		}

		res, err := store.GetResourceForUpdate(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if res.ID != b.ResourceID {
			// Moving to another resource needs the book action there; the
			// original resource's grant does not carry over.
			if err := security.Authorize(ctx, store, user, res.ID, domain.ActionBook); err != nil {
				return err
			}
		}

		avail, err := checkAvailability(ctx, store, res, req.StartTime, req.EndTime, b.ID)
		if err != nil {
			return err
		}
		if !avail.Available {
			return domain.ErrConflict("%s", avail.Reason)
		}

		if res.ID != b.ResourceID || !req.StartTime.Equal(b.StartTime) || !req.EndTime.Equal(b.EndTime) {
			// The old approval does not carry over to a changed booking.
			b.Status = domain.StatusPending
		}
		b.ResourceID = res.ID
		b.StartTime = req.StartTime
		b.EndTime = req.EndTime
		if err := store.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated, err = store.GetBooking(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking rescheduled",
		"booking_id", updated.ID,
		"resource_id", updated.ResourceID,
		"start", updated.StartTime,
		"end", updated.EndTime)
	return updated, nil
}

// ChangeStatus moves a booking through its lifecycle. Approvals and
// rejections need the manage action on the resource (or superuser);
// cancellation is reserved for the owner or a superuser. Transitions out of terminal
// statuses, and same-to-same changes, are invalid. Approval re-runs the
// availability check under the resource lock, excluding the booking itself:
// capacity may have been taken by other approvals since it was queued.
func (s *Service) ChangeStatus(ctx context.Context, id string, target domain.BookingStatus) (*domain.Booking, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if !target.IsValid() {
		return nil, domain.ErrValidation("invalid booking status %q", target)
	}

	var result *domain.Booking
	err := s.runner.InTx(ctx, func(store domain.EntityStore) error {
		b, err := store.GetBooking(ctx, id)
		if err != nil {
			return err
		}

		switch target {
		case domain.StatusCancelled:
			// Cancellation belongs to the person who made the booking.
			// Holding manage on the resource is not enough.
			if b.UserID != user.ID && !user.IsSuperuser {
				return domain.ErrAccessDenied("only the booking owner or a superuser can cancel it")
			}
		case domain.StatusApproved, domain.StatusRejected:
			if err := security.Authorize(ctx, store, user, b.ResourceID, domain.ActionManage); err != nil {
				return err
			}
		default:
			return domain.ErrValidation("bookings cannot be moved back to %q", target)
		}

		if !b.Status.CanTransitionTo(target) {
			return domain.ErrInvalidTransition(b.Status, target)
		}

		if target == domain.StatusApproved {
			res, err := store.GetResourceForUpdate(ctx, b.ResourceID)
			if err != nil {
				return err
			}
			avail, err := checkAvailability(ctx, store, res, b.StartTime, b.EndTime, b.ID)
			if err != nil {
				return err
			}
			if !avail.Available {
				return domain.ErrConflict("%s", avail.Reason)
			}
		}

		if err := store.UpdateBookingStatus(ctx, b.ID, target); err != nil {
			return err
		}
		result, err = store.GetBooking(ctx, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		"booking_id", result.ID,
		"status", result.Status)
	return result, nil
}

// Cancel is shorthand for ChangeStatus to cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	return s.ChangeStatus(ctx, id, domain.StatusCancelled)
}

// Get returns a booking visible to the caller: its owner, a superuser, or
// anyone holding the view action on its resource.
func (s *Service) Get(ctx context.Context, id string) (*domain.Booking, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	b, err := s.reads.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID == user.ID || user.IsSuperuser {
		return b, nil
	}
	if err := security.Authorize(ctx, s.reads, user, b.ResourceID, domain.ActionView); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns bookings matching the filter. Non-superusers only ever see
// their own bookings regardless of the requested filter.
func (s *Service) List(ctx context.Context, filter domain.BookingFilter, page domain.PageRequest) ([]domain.Booking, int64, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, 0, domain.ErrAccessDenied("authentication required")
	}
	if !user.IsSuperuser {
		filter.UserID = user.ID
	}
	return s.reads.ListBookings(ctx, filter, page)
}

// CheckAvailability answers an advisory availability question over the read
// pool; it takes no locks and its verdict may be stale by the time a
// booking is attempted. The caller needs the view action on the resource.
// Conflict window details are only exposed to superusers.
func (s *Service) CheckAvailability(ctx context.Context, req *domain.AvailabilityRequest) (*domain.AvailabilityResult, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := resolveResource(ctx, s.reads, req)
	if err != nil {
		return nil, err
	}
	if err := security.Authorize(ctx, s.reads, user, res.ID, domain.ActionView); err != nil {
		return nil, err
	}

	result, err := checkAvailability(ctx, s.reads, res, req.StartTime, req.EndTime, req.ExcludeBookingID)
	if err != nil {
		return nil, err
	}
	if !user.IsSuperuser {
		result.Conflicts = nil
	}
	return result, nil
}
