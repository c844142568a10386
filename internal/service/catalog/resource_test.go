package catalog

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/ViktorMash/resource-booking-system/internal/db"
	"github.com/ViktorMash/resource-booking-system/internal/db/repository"
	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

func setupResourceTest(t *testing.T) *ResourceService {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewResourceService(repository.NewResourceRepo(writeDB))
}

func superCtx() context.Context {
	return domain.WithUser(context.Background(), domain.ContextUser{
		ID: "super-id", Username: "root", IsSuperuser: true,
	})
}

func memberCtx() context.Context {
	return domain.WithUser(context.Background(), domain.ContextUser{
		ID: "member-id", Username: "alice",
	})
}

func TestResourceService_Create(t *testing.T) {
	svc := setupResourceTest(t)

	r, err := svc.Create(superCtx(), &domain.CreateResourceRequest{
		Name: "Meeting Room A", Description: "4th floor", Capacity: 4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, 4, r.Capacity)

	// Creation is superuser only.
	_, err = svc.Create(memberCtx(), &domain.CreateResourceRequest{Name: "X", Capacity: 1})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	_, err = svc.Create(context.Background(), &domain.CreateResourceRequest{Name: "X", Capacity: 1})
	require.ErrorAs(t, err, &denied)

	// Validation: capacity must be at least 1, name required.
	var invalid *domain.ValidationError
	_, err = svc.Create(superCtx(), &domain.CreateResourceRequest{Name: "X", Capacity: 0})
	require.ErrorAs(t, err, &invalid)
	_, err = svc.Create(superCtx(), &domain.CreateResourceRequest{Capacity: 1})
	require.ErrorAs(t, err, &invalid)

	// Names are unique, case-insensitively.
	_, err = svc.Create(superCtx(), &domain.CreateResourceRequest{Name: "meeting room a", Capacity: 1})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestResourceService_Reads(t *testing.T) {
	svc := setupResourceTest(t)

	created, err := svc.Create(superCtx(), &domain.CreateResourceRequest{Name: "Projector", Capacity: 1})
	require.NoError(t, err)

	// Reads are open to any authenticated user.
	got, err := svc.GetByID(memberCtx(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Projector", got.Name)

	got, err = svc.GetByName(memberCtx(), "PROJECTOR")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	list, total, err := svc.List(memberCtx(), domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	var notFound *domain.NotFoundError
	_, err = svc.GetByID(memberCtx(), "missing")
	require.ErrorAs(t, err, &notFound)
}
