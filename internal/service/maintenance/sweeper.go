// Package maintenance runs background housekeeping over the booking store.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

const sweepBatchSize = 100

// Sweeper periodically rejects pending bookings whose window has already
// ended. A request nobody approved before it expired can never be honored;
// sweeping it keeps the pending queue meaningful for managers.
type Sweeper struct {
	cron     *cron.Cron
	runner   domain.TxRunner
	schedule string
	logger   *slog.Logger
	now      func() time.Time
}

// NewSweeper creates a Sweeper. schedule is a cron expression; empty
// defaults to every 15 minutes.
func NewSweeper(runner domain.TxRunner, schedule string, logger *slog.Logger) *Sweeper {
	if schedule == "" {
		schedule = "*/15 * * * *"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if n, err := s.SweepExpired(context.Background()); err != nil {
			s.logger.Warn("expired booking sweep failed", "error", err)
		} else if n > 0 {
			s.logger.Info("swept expired pending bookings", "count", n)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("booking sweeper started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.logger.Info("booking sweeper stopped")
}

// SweepExpired rejects pending bookings that ended before now, in batches,
// and returns how many were rejected. Each batch runs in its own
// transaction so a failure never blocks earlier progress.
func (s *Sweeper) SweepExpired(ctx context.Context) (int, error) {
	total := 0
	for {
		n := 0
		err := s.runner.InTx(ctx, func(store domain.EntityStore) error {
			expired, err := store.ListExpiredPending(ctx, s.now(), sweepBatchSize)
			if err != nil {
				return err
			}
			for _, b := range expired {
				if err := store.UpdateBookingStatus(ctx, b.ID, domain.StatusRejected); err != nil {
					return err
				}
			}
			n = len(expired)
			return nil
		})
		if err != nil {
			return total, err
		}
		total += n
		if n < sweepBatchSize {
			return total, nil
		}
	}
}
