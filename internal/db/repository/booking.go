package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type BookingRepo struct {
	db DBTX
}

func NewBookingRepo(db DBTX) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, user_id, resource_id, start_time, end_time, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	var status string
	err := row.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	now := utc(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, resource_id, start_time, end_time, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.ResourceID, utc(b.StartTime), utc(b.EndTime), string(b.Status), now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *b
	created.StartTime = utc(b.StartTime)
	created.EndTime = utc(b.EndTime)
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET resource_id = ?, start_time = ?, end_time = ?, status = ?, updated_at = ? WHERE id = ?`,
		b.ResourceID, utc(b.StartTime), utc(b.EndTime), string(b.Status), utc(time.Now()), b.ID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("booking %s not found", b.ID)
	}
	return nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), utc(time.Now()), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("booking %s not found", id)
	}
	return nil
}

// ListConflicts returns the pending and approved bookings on the resource
// whose half-open window overlaps [start, end). A booking that merely
// touches the window at a boundary is not a conflict. excludeID removes one
// booking from the set so reschedules do not collide with themselves.
func (r *BookingRepo) ListConflicts(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE resource_id = ?
		   AND status IN ('pending', 'approved')
		   AND start_time < ? AND ? < end_time
		   AND (? = '' OR id <> ?)
		 ORDER BY start_time, id`,
		resourceID, utc(end), utc(start), excludeID, excludeID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepo) List(ctx context.Context, filter domain.BookingFilter, page domain.PageRequest) ([]domain.Booking, int64, error) {
	where := []string{"1 = 1"}
	var args []any
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.ResourceID != "" {
		where = append(where, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if len(filter.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(filter.Statuses))+")")
		for _, s := range filter.Statuses {
			args = append(args, string(s))
		}
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+cond+`
		 ORDER BY start_time, id LIMIT ? OFFSET ?`,
		append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, total, rows.Err()
}

// ListExpiredPending returns pending bookings whose window has already
// ended. The maintenance sweeper rejects these in batches.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE status = 'pending' AND end_time < ?
		 ORDER BY end_time LIMIT ?`,
		utc(cutoff), limit)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
