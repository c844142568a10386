// Command rbsctl is the operator CLI for the resource booking system:
// migrations, seeding, and local user administration against the SQLite
// database, without going through the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/ViktorMash/resource-booking-system/internal/app"
	"github.com/ViktorMash/resource-booking-system/internal/config"
	"github.com/ViktorMash/resource-booking-system/internal/db"
	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:           "rbsctl",
		Short:         "Resource booking system operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("DB_PATH"); v != "" {
					dbPath = v
				}
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "bookings.sqlite", "path to the SQLite database file")

	rootCmd.AddCommand(newMigrateCmd(&dbPath))
	rootCmd.AddCommand(newSeedCmd(&dbPath))
	rootCmd.AddCommand(newCreateUserCmd(&dbPath))

	return rootCmd
}

func newMigrateCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeDB, err := db.OpenSQLite(*dbPath, "write", 0)
			if err != nil {
				return err
			}
			defer writeDB.Close() //nolint:errcheck

			if err := db.RunMigrations(writeDB); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newSeedCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Apply a YAML fixture file (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if err := a.Seed(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("seed applied")
			return nil
		},
	}
}

func newCreateUserCmd(dbPath *string) *cobra.Command {
	var (
		email     string
		username  string
		superuser bool
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, prompting for the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || username == "" {
				return errors.New("--email and --username are required")
			}
			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u, err := a.Users.Create(cmd.Context(), &domain.User{
				ID:             domain.NewID(),
				Email:          email,
				Username:       username,
				HashedPassword: string(hash),
				IsActive:       true,
				IsSuperuser:    superuser,
			})
			if err != nil {
				return err
			}
			cmd.Printf("created user %s (%s)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "grant superuser")
	return cmd
}

// promptPassword reads the password from the terminal without echo, twice,
// and requires both entries to match.
func promptPassword(cmd *cobra.Command) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("create-user requires an interactive terminal for the password prompt")
	}

	cmd.Print("Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return "", err
	}
	cmd.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	cmd.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	return string(first), nil
}

func openApp(ctx context.Context, dbPath string) (*app.App, error) {
	cfg := &config.Config{
		DBPath:             dbPath,
		CORSAllowedOrigins: []string{"*"},
		Auth:               config.AuthConfig{JWTSecret: "rbsctl-local", Issuer: "rbsctl"},
	}
	return app.New(ctx, cfg, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}
