package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/ViktorMash/resource-booking-system/internal/db"
	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

func setupPermissionTest(t *testing.T) (*PermissionRepo, *UserRepo, *GroupRepo, *ResourceRepo) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewPermissionRepo(writeDB), NewUserRepo(writeDB), NewGroupRepo(writeDB), NewResourceRepo(writeDB)
}

func TestPermissionRepo_CreateAndGet(t *testing.T) {
	perms, users, _, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	room := createTestResource(t, resources, "room-1", 1)

	p, err := perms.Create(ctx, &domain.Permission{
		ID:         domain.NewID(),
		Action:     domain.ActionBook,
		ResourceID: room.ID,
		Target:     domain.UserTarget(u.ID),
	})
	require.NoError(t, err)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := perms.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionBook, got.Action)
	userID, ok := got.Target.UserID()
	require.True(t, ok)
	assert.Equal(t, u.ID, userID)
}

func TestPermissionRepo_DuplicateTuple(t *testing.T) {
	perms, users, groups, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	g, err := groups.Create(ctx, &domain.Group{ID: domain.NewID(), Name: "staff"})
	require.NoError(t, err)
	room := createTestResource(t, resources, "room-1", 1)

	_, err = perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionView, ResourceID: room.ID,
		Target: domain.UserTarget(u.ID),
	})
	require.NoError(t, err)

	// Same (resource, action, user) tuple is rejected by the store.
	_, err = perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionView, ResourceID: room.ID,
		Target: domain.UserTarget(u.ID),
	})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Same action for a group target is a different tuple.
	_, err = perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionView, ResourceID: room.ID,
		Target: domain.GroupTarget(g.ID),
	})
	require.NoError(t, err)
}

func TestPermissionRepo_Exists(t *testing.T) {
	perms, users, _, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	room := createTestResource(t, resources, "room-1", 1)

	p, err := perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionManage, ResourceID: room.ID,
		Target: domain.UserTarget(u.ID),
	})
	require.NoError(t, err)

	exists, err := perms.Exists(ctx, room.ID, domain.ActionManage, domain.UserTarget(u.ID), "")
	require.NoError(t, err)
	assert.True(t, exists)

	// Excluding the permission itself reports no duplicate, which is what
	// updates rely on.
	exists, err = perms.Exists(ctx, room.ID, domain.ActionManage, domain.UserTarget(u.ID), p.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = perms.Exists(ctx, room.ID, domain.ActionBook, domain.UserTarget(u.ID), "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPermissionRepo_HasAny(t *testing.T) {
	perms, users, groups, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	g, err := groups.Create(ctx, &domain.Group{ID: domain.NewID(), Name: "staff"})
	require.NoError(t, err)
	room := createTestResource(t, resources, "room-1", 1)

	_, err = perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionBook, ResourceID: room.ID,
		Target: domain.GroupTarget(g.ID),
	})
	require.NoError(t, err)

	direct := domain.UserTarget(u.ID)
	viaGroup := domain.GroupTarget(g.ID)

	// Group grant alone satisfies the union.
	ok, err := perms.HasAny(ctx, room.ID, domain.ActionBook, []domain.PermissionTarget{direct, viaGroup})
	require.NoError(t, err)
	assert.True(t, ok)

	// Without the group, the user has nothing.
	ok, err = perms.HasAny(ctx, room.ID, domain.ActionBook, []domain.PermissionTarget{direct})
	require.NoError(t, err)
	assert.False(t, ok)

	// Holding book does not imply view.
	ok, err = perms.HasAny(ctx, room.ID, domain.ActionView, []domain.PermissionTarget{direct, viaGroup})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = perms.HasAny(ctx, room.ID, domain.ActionBook, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPermissionRepo_UpdateRetarget(t *testing.T) {
	perms, users, groups, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	g, err := groups.Create(ctx, &domain.Group{ID: domain.NewID(), Name: "staff"})
	require.NoError(t, err)
	room := createTestResource(t, resources, "room-1", 1)

	p, err := perms.Create(ctx, &domain.Permission{
		ID: domain.NewID(), Action: domain.ActionView, ResourceID: room.ID,
		Target: domain.UserTarget(u.ID),
	})
	require.NoError(t, err)

	// Moving the grant from the user to a group clears the user column.
	p.Target = domain.GroupTarget(g.ID)
	require.NoError(t, perms.Update(ctx, p))

	got, err := perms.GetByID(ctx, p.ID)
	require.NoError(t, err)
	groupID, ok := got.Target.GroupID()
	require.True(t, ok)
	assert.Equal(t, g.ID, groupID)
	_, isUser := got.Target.UserID()
	assert.False(t, isUser)
}

func TestPermissionRepo_ListFilter(t *testing.T) {
	perms, users, _, resources := setupPermissionTest(t)
	ctx := context.Background()

	u := createTestUser(t, users, "alice")
	room1 := createTestResource(t, resources, "room-1", 1)
	room2 := createTestResource(t, resources, "room-2", 1)

	for _, resID := range []string{room1.ID, room2.ID} {
		_, err := perms.Create(ctx, &domain.Permission{
			ID: domain.NewID(), Action: domain.ActionView, ResourceID: resID,
			Target: domain.UserTarget(u.ID),
		})
		require.NoError(t, err)
	}

	got, total, err := perms.List(ctx, domain.PermissionFilter{ResourceID: room1.ID}, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, room1.ID, got[0].ResourceID)

	_, total, err = perms.List(ctx, domain.PermissionFilter{UserID: u.ID}, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
