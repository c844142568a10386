package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type PermissionRepo struct {
	db DBTX
}

func NewPermissionRepo(db DBTX) *PermissionRepo {
	return &PermissionRepo{db: db}
}

func scanPermission(row interface{ Scan(...any) error }) (*domain.Permission, error) {
	var p domain.Permission
	var action string
	var userID, groupID sql.NullString
	if err := row.Scan(&p.ID, &action, &p.ResourceID, &userID, &groupID, &p.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	p.Action = domain.Action(action)
	if userID.Valid {
		p.Target = domain.UserTarget(userID.String)
	} else {
		p.Target = domain.GroupTarget(groupID.String)
	}
	return &p, nil
}

// targetIDs splits a permission target into nullable user and group columns.
func targetIDs(t domain.PermissionTarget) (userID, groupID sql.NullString) {
	if id, ok := t.UserID(); ok {
		userID = sql.NullString{String: id, Valid: true}
	}
	if id, ok := t.GroupID(); ok {
		groupID = sql.NullString{String: id, Valid: true}
	}
	return userID, groupID
}

func (r *PermissionRepo) Create(ctx context.Context, p *domain.Permission) (*domain.Permission, error) {
	now := utc(time.Now())
	userID, groupID := targetIDs(p.Target)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, action, resource_id, user_id, group_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Action), p.ResourceID, userID, groupID, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *p
	created.CreatedAt = now
	return &created, nil
}

func (r *PermissionRepo) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	return scanPermission(r.db.QueryRowContext(ctx,
		`SELECT id, action, resource_id, user_id, group_id, created_at
		 FROM permissions WHERE id = ?`, id))
}

func (r *PermissionRepo) List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) ([]domain.Permission, int64, error) {
	where := []string{"1 = 1"}
	var args []any
	if filter.ResourceID != "" {
		where = append(where, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.GroupID != "" {
		where = append(where, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM permissions WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, resource_id, user_id, group_id, created_at
		 FROM permissions WHERE `+cond+` ORDER BY created_at, id LIMIT ? OFFSET ?`,
		append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var perms []domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, 0, err
		}
		perms = append(perms, *p)
	}
	return perms, total, rows.Err()
}

func (r *PermissionRepo) Update(ctx context.Context, p *domain.Permission) error {
	userID, groupID := targetIDs(p.Target)
	res, err := r.db.ExecContext(ctx,
		`UPDATE permissions SET action = ?, resource_id = ?, user_id = ?, group_id = ? WHERE id = ?`,
		string(p.Action), p.ResourceID, userID, groupID, p.ID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("permission %s not found", p.ID)
	}
	return nil
}

func (r *PermissionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("permission %s not found", id)
	}
	return nil
}

func (r *PermissionRepo) Exists(ctx context.Context, resourceID string, action domain.Action, target domain.PermissionTarget, excludeID string) (bool, error) {
	userID, groupID := targetIDs(target)
	var exists int64
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM permissions
		   WHERE resource_id = ? AND action = ?
		     AND user_id IS ? AND group_id IS ?
		     AND (? = '' OR id <> ?)
		 )`,
		resourceID, string(action), userID, groupID, excludeID, excludeID).Scan(&exists)
	if err != nil {
		return false, mapDBError(err)
	}
	return exists != 0, nil
}

// HasAny reports whether any of the given targets holds the action on the
// resource. Targets are the caller's direct user target plus one target per
// group they belong to; a single hit is enough.
func (r *PermissionRepo) HasAny(ctx context.Context, resourceID string, action domain.Action, targets []domain.PermissionTarget) (bool, error) {
	var userIDs, groupIDs []any
	for _, t := range targets {
		if id, ok := t.UserID(); ok {
			userIDs = append(userIDs, id)
		}
		if id, ok := t.GroupID(); ok {
			groupIDs = append(groupIDs, id)
		}
	}
	if len(userIDs) == 0 && len(groupIDs) == 0 {
		return false, nil
	}

	var conds []string
	args := []any{resourceID, string(action)}
	if len(userIDs) > 0 {
		conds = append(conds, "user_id IN ("+placeholders(len(userIDs))+")")
		args = append(args, userIDs...)
	}
	if len(groupIDs) > 0 {
		conds = append(conds, "group_id IN ("+placeholders(len(groupIDs))+")")
		args = append(args, groupIDs...)
	}

	var exists int64
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM permissions
		   WHERE resource_id = ? AND action = ? AND (`+strings.Join(conds, " OR ")+`)
		 )`, args...).Scan(&exists)
	if err != nil {
		return false, mapDBError(err)
	}
	return exists != 0, nil
}
