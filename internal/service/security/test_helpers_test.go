package security

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "github.com/ViktorMash/resource-booking-system/internal/db"
	"github.com/ViktorMash/resource-booking-system/internal/db/repository"
	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// testEnv wires the security services against a fresh SQLite store.
type testEnv struct {
	users       *UserService
	groups      *GroupService
	permissions *PermissionService
	authz       *AuthorizationService

	userRepo     *repository.UserRepo
	groupRepo    *repository.GroupRepo
	resourceRepo *repository.ResourceRepo
	permRepo     *repository.PermissionRepo
}

func setupSecurityTest(t *testing.T) *testEnv {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)

	userRepo := repository.NewUserRepo(writeDB)
	groupRepo := repository.NewGroupRepo(writeDB)
	resourceRepo := repository.NewResourceRepo(writeDB)
	permRepo := repository.NewPermissionRepo(writeDB)
	store := repository.NewStore(writeDB)

	return &testEnv{
		users:        NewUserService(userRepo),
		groups:       NewGroupService(groupRepo, userRepo),
		permissions:  NewPermissionService(permRepo, resourceRepo, userRepo, groupRepo),
		authz:        NewAuthorizationService(store),
		userRepo:     userRepo,
		groupRepo:    groupRepo,
		resourceRepo: resourceRepo,
		permRepo:     permRepo,
	}
}

// superCtx returns a context with a superuser caller.
func superCtx() context.Context {
	return domain.WithUser(context.Background(), domain.ContextUser{
		ID: "super-id", Email: "root@example.com", Username: "root", IsSuperuser: true,
	})
}

// userCtxFor returns a context authenticated as the given user.
func userCtxFor(u *domain.User) context.Context {
	return domain.WithUser(context.Background(), domain.ContextUser{
		ID: u.ID, Email: u.Email, Username: u.Username, IsSuperuser: u.IsSuperuser,
	})
}

func mustCreateUser(t *testing.T, env *testEnv, username string) *domain.User {
	t.Helper()
	u, err := env.userRepo.Create(context.Background(), &domain.User{
		ID:             domain.NewID(),
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: "x",
		IsActive:       true,
	})
	require.NoError(t, err)
	return u
}

func mustCreateResource(t *testing.T, env *testEnv, name string, capacity int) *domain.Resource {
	t.Helper()
	r, err := env.resourceRepo.Create(context.Background(), &domain.Resource{
		ID: domain.NewID(), Name: name, Capacity: capacity,
	})
	require.NoError(t, err)
	return r
}
