package repository

import (
	"context"
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type GroupRepo struct {
	db DBTX
}

func NewGroupRepo(db DBTX) *GroupRepo {
	return &GroupRepo{db: db}
}

func scanGroup(row interface{ Scan(...any) error }) (*domain.Group, error) {
	var g domain.Group
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	now := utc(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *g
	created.CreatedAt = now
	return &created, nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	return scanGroup(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM groups WHERE id = ?`, id))
}

func (r *GroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return scanGroup(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM groups WHERE lower(name) = lower(?)`, name))
}

func (r *GroupRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM groups ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, *g)
	}
	return groups, total, rows.Err()
}

func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("group %s not found", id)
	}
	return nil
}

func (r *GroupRepo) AddMember(ctx context.Context, m *domain.GroupMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_groups (user_id, group_id) VALUES (?, ?)`,
		m.UserID, m.GroupID)
	return mapDBError(err)
}

func (r *GroupRepo) RemoveMember(ctx context.Context, m *domain.GroupMember) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_groups WHERE user_id = ? AND group_id = ?`,
		m.UserID, m.GroupID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("user %s is not a member of group %s", m.UserID, m.GroupID)
	}
	return nil
}

func (r *GroupRepo) ListMembers(ctx context.Context, groupID string, page domain.PageRequest) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_groups WHERE group_id = ?`, groupID).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.email, u.username, u.hashed_password, u.is_active, u.is_superuser, u.created_at, u.updated_at
		 FROM users u
		 JOIN user_groups ug ON ug.user_id = u.id
		 WHERE ug.group_id = ?
		 ORDER BY u.username LIMIT ? OFFSET ?`,
		groupID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}
