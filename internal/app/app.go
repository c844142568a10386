// Package app wires configuration, storage, services, and the HTTP router
// into a runnable application. Both cmd/server and cmd/rbsctl build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ViktorMash/resource-booking-system/internal/api"
	"github.com/ViktorMash/resource-booking-system/internal/config"
	"github.com/ViktorMash/resource-booking-system/internal/db"
	"github.com/ViktorMash/resource-booking-system/internal/db/repository"
	"github.com/ViktorMash/resource-booking-system/internal/middleware"
	"github.com/ViktorMash/resource-booking-system/internal/service/booking"
	"github.com/ViktorMash/resource-booking-system/internal/service/catalog"
	"github.com/ViktorMash/resource-booking-system/internal/service/maintenance"
	"github.com/ViktorMash/resource-booking-system/internal/service/security"
)

// App holds the wired application. Close releases the database pools.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Router  http.Handler
	Sweeper *maintenance.Sweeper

	Users       *repository.UserRepo
	Groups      *repository.GroupRepo
	Resources   *repository.ResourceRepo
	Permissions *repository.PermissionRepo

	writeDB *sql.DB
	readDB  *sql.DB
}

// New opens the database pair, runs migrations, and wires every service
// behind the router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	writeDB, readDB, err := db.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	closeAll := func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	}

	if err := db.RunMigrations(writeDB); err != nil {
		closeAll()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	users := repository.NewUserRepo(writeDB)
	groups := repository.NewGroupRepo(writeDB)
	resources := repository.NewResourceRepo(writeDB)
	permissions := repository.NewPermissionRepo(writeDB)

	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		closeAll()
		return nil, err
	}

	validator, err := buildValidator(ctx, cfg)
	if err != nil {
		closeAll()
		return nil, err
	}

	runner := repository.NewTxRunner(writeDB)
	bookingSvc := booking.NewService(runner, repository.NewStore(readDB), logger)

	handler := api.NewHandler(
		security.NewUserService(users),
		security.NewGroupService(groups, users),
		security.NewPermissionService(permissions, resources, users, groups),
		catalog.NewResourceService(resources),
		bookingSvc,
		tokens,
		logger,
	)

	router := api.NewRouter(handler, api.RouterConfig{
		Validator:      validator,
		UserRepo:       users,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	})

	var sweeper *maintenance.Sweeper
	if cfg.SweepSchedule != "" {
		sweeper = maintenance.NewSweeper(runner, cfg.SweepSchedule, logger)
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		Router:      router,
		Sweeper:     sweeper,
		Users:       users,
		Groups:      groups,
		Resources:   resources,
		Permissions: permissions,
		writeDB:     writeDB,
		readDB:      readDB,
	}, nil
}

// buildValidator picks OIDC validation when an identity provider is
// configured, HS256 with the local secret otherwise.
func buildValidator(ctx context.Context, cfg *config.Config) (middleware.JWTValidator, error) {
	auth := &cfg.Auth
	switch {
	case auth.JWKSURL != "":
		return middleware.NewOIDCValidatorFromJWKS(ctx, auth.JWKSURL, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	case auth.IssuerURL != "":
		return middleware.NewOIDCValidator(ctx, auth.IssuerURL, auth.Audience, auth.AllowedIssuers)
	default:
		return middleware.NewHS256Validator(auth.JWTSecret)
	}
}

// Close releases the database pools.
func (a *App) Close() error {
	return errors.Join(a.readDB.Close(), a.writeDB.Close())
}
