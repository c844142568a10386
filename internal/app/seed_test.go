package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViktorMash/resource-booking-system/internal/config"
	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

const seedYAML = `
users:
  - email: admin@example.com
    username: admin
    password: adminpass123
    superuser: true
  - email: alice@example.com
    username: alice
    password: alicepass123
groups:
  - name: facilities
    description: Facilities team
    members: [alice]
resources:
  - name: Meeting Room A
    capacity: 4
  - name: Projector
permissions:
  - action: book
    resource: Meeting Room A
    group: facilities
  - action: view
    resource: Projector
    user: alice
`

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{
		DBPath:             filepath.Join(t.TempDir(), "app.sqlite"),
		CORSAllowedOrigins: []string{"*"},
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			Issuer:    "test",
			TokenTTL:  time.Hour,
		},
	}
	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestSeedAppliesFixtures(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	require.NoError(t, a.Seed(ctx, path))

	admin, err := a.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsSuperuser)

	alice, err := a.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, alice.IsSuperuser)

	group, err := a.Groups.GetByName(ctx, "facilities")
	require.NoError(t, err)
	memberIDs, err := a.Users.ListGroupIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Contains(t, memberIDs, group.ID)

	room, err := a.Resources.GetByName(ctx, "Meeting Room A")
	require.NoError(t, err)
	assert.Equal(t, 4, room.Capacity)

	// Unspecified capacity defaults to 1.
	projector, err := a.Resources.GetByName(ctx, "Projector")
	require.NoError(t, err)
	assert.Equal(t, 1, projector.Capacity)

	has, err := a.Permissions.HasAny(ctx, room.ID, domain.ActionBook,
		[]domain.PermissionTarget{domain.GroupTarget(group.ID)})
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSeedIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	require.NoError(t, a.Seed(ctx, path))
	require.NoError(t, a.Seed(ctx, path))

	users, total, err := a.Users.List(ctx, domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 2, total)
}

func TestSeedRejectsBrokenReferences(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
permissions:
  - action: book
    resource: Ghost Room
    user: nobody
`), 0o600))

	err := a.Seed(ctx, path)
	require.Error(t, err)
}
