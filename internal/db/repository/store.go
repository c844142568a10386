package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// Store bundles the per-entity repositories behind domain.EntityStore so a
// single object, bound to either a pool or a transaction, serves the whole
// booking flow.
type Store struct {
	users       *UserRepo
	resources   *ResourceRepo
	permissions *PermissionRepo
	bookings    *BookingRepo
}

func NewStore(db DBTX) *Store {
	return &Store{
		users:       NewUserRepo(db),
		resources:   NewResourceRepo(db),
		permissions: NewPermissionRepo(db),
		bookings:    NewBookingRepo(db),
	}
}

var _ domain.EntityStore = (*Store)(nil)

func (s *Store) GetResourceForUpdate(ctx context.Context, id string) (*domain.Resource, error) {
	return s.resources.GetForUpdate(ctx, id)
}

func (s *Store) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *Store) GetResourceByName(ctx context.Context, name string) (*domain.Resource, error) {
	return s.resources.GetByName(ctx, name)
}

func (s *Store) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Store) ListConflicts(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]domain.Booking, error) {
	return s.bookings.ListConflicts(ctx, resourceID, start, end, excludeID)
}

func (s *Store) ListBookings(ctx context.Context, filter domain.BookingFilter, page domain.PageRequest) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, filter, page)
}

func (s *Store) InsertBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	return s.bookings.Insert(ctx, b)
}

func (s *Store) UpdateBooking(ctx context.Context, b *domain.Booking) error {
	return s.bookings.Update(ctx, b)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return s.bookings.UpdateStatus(ctx, id, status)
}

func (s *Store) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	return s.bookings.ListExpiredPending(ctx, cutoff, limit)
}

func (s *Store) ListUserGroupIDs(ctx context.Context, userID string) ([]string, error) {
	return s.users.ListGroupIDs(ctx, userID)
}

func (s *Store) HasAnyPermission(ctx context.Context, resourceID string, action domain.Action, targets []domain.PermissionTarget) (bool, error) {
	return s.permissions.HasAny(ctx, resourceID, action, targets)
}

// TxRunner runs store operations inside a single write transaction. It must
// be constructed with the write pool: its single connection plus
// _txlock=immediate means BeginTx already holds the database write lock, so
// everything inside fn observes and mutates a serialized snapshot.
type TxRunner struct {
	db *sql.DB
}

func NewTxRunner(writeDB *sql.DB) *TxRunner {
	return &TxRunner{db: writeDB}
}

var _ domain.TxRunner = (*TxRunner)(nil)

// InTx begins a transaction, hands fn a transaction-bound store, and commits
// if fn returns nil. Any error (or panic) rolls back, leaving no partial
// writes.
func (t *TxRunner) InTx(ctx context.Context, fn func(store domain.EntityStore) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewStore(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapDBError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
