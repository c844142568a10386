package repository

import (
	"context"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type ResourceRepo struct {
	db DBTX
}

func NewResourceRepo(db DBTX) *ResourceRepo {
	return &ResourceRepo{db: db}
}

const resourceColumns = `id, name, description, capacity, created_at, updated_at`

func scanResource(row interface{ Scan(...any) error }) (*domain.Resource, error) {
	var r domain.Resource
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Capacity, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &r, nil
}

func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	now := utc(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (id, name, description, capacity, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.ID, res.Name, res.Description, res.Capacity, now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *res
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	return scanResource(r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id))
}

func (r *ResourceRepo) GetByName(ctx context.Context, name string) (*domain.Resource, error) {
	return scanResource(r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE lower(name) = lower(?)`, name))
}

func (r *ResourceRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Resource, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		resources = append(resources, *res)
	}
	return resources, total, rows.Err()
}

// GetForUpdate reads the resource after acquiring an exclusive lock on its
// row. The lock-acquiring UPDATE forces the enclosing transaction to take
// the database write lock before any availability read, so concurrent
// booking attempts against the same resource serialize here. Only
// meaningful inside a write transaction.
func (r *ResourceRepo) GetForUpdate(ctx context.Context, id string) (*domain.Resource, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE resources SET lock_version = lock_version + 1 WHERE id = ?`, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("resource %s not found", id)
	}
	return r.GetByID(ctx, id)
}
