package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// SeedFile describes YAML fixtures applied after migrations. Entries that
// already exist (by email, username, or name) are left untouched, so a seed
// file can be applied on every start.
type SeedFile struct {
	Users []struct {
		Email     string `yaml:"email"`
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		Superuser bool   `yaml:"superuser"`
	} `yaml:"users"`
	Groups []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Members     []string `yaml:"members"` // usernames
	} `yaml:"groups"`
	Resources []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Capacity    int    `yaml:"capacity"`
	} `yaml:"resources"`
	Permissions []struct {
		Action   string `yaml:"action"`
		Resource string `yaml:"resource"` // resource name
		User     string `yaml:"user"`     // username, mutually exclusive with Group
		Group    string `yaml:"group"`    // group name
	} `yaml:"permissions"`
}

// Seed loads the YAML fixture file and applies it. Missing file is an error;
// callers decide whether seeding is optional.
func (a *App) Seed(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}
	return a.applySeed(ctx, &seed)
}

func (a *App) applySeed(ctx context.Context, seed *SeedFile) error {
	for _, u := range seed.Users {
		if u.Email == "" || u.Username == "" || u.Password == "" {
			return fmt.Errorf("seed user %q: email, username, and password are required", u.Username)
		}
		existing, err := a.Users.GetByUsername(ctx, u.Username)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		if existing != nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed user %q: hash password: %w", u.Username, err)
		}
		if _, err := a.Users.Create(ctx, &domain.User{
			ID:             domain.NewID(),
			Email:          u.Email,
			Username:       u.Username,
			HashedPassword: string(hash),
			IsActive:       true,
			IsSuperuser:    u.Superuser,
		}); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		a.Logger.Info("seeded user", "username", u.Username, "superuser", u.Superuser)
	}

	for _, g := range seed.Groups {
		group, err := a.Groups.GetByName(ctx, g.Name)
		if isNotFound(err) {
			group, err = a.Groups.Create(ctx, &domain.Group{
				ID:          domain.NewID(),
				Name:        g.Name,
				Description: g.Description,
			})
			if err == nil {
				a.Logger.Info("seeded group", "name", g.Name)
			}
		}
		if err != nil {
			return fmt.Errorf("seed group %q: %w", g.Name, err)
		}
		for _, username := range g.Members {
			member, err := a.Users.GetByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("seed group %q member %q: %w", g.Name, username, err)
			}
			err = a.Groups.AddMember(ctx, &domain.GroupMember{GroupID: group.ID, UserID: member.ID})
			if err != nil && !isConflict(err) {
				return fmt.Errorf("seed group %q member %q: %w", g.Name, username, err)
			}
		}
	}

	for _, r := range seed.Resources {
		_, err := a.Resources.GetByName(ctx, r.Name)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return fmt.Errorf("seed resource %q: %w", r.Name, err)
		}
		capacity := r.Capacity
		if capacity == 0 {
			capacity = 1
		}
		if _, err := a.Resources.Create(ctx, &domain.Resource{
			ID:          domain.NewID(),
			Name:        r.Name,
			Description: r.Description,
			Capacity:    capacity,
		}); err != nil {
			return fmt.Errorf("seed resource %q: %w", r.Name, err)
		}
		a.Logger.Info("seeded resource", "name", r.Name, "capacity", capacity)
	}

	for _, p := range seed.Permissions {
		if err := a.seedPermission(ctx, p.Action, p.Resource, p.User, p.Group); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) seedPermission(ctx context.Context, action, resourceName, username, groupName string) error {
	act, err := domain.ParseAction(action)
	if err != nil {
		return fmt.Errorf("seed permission on %q: %w", resourceName, err)
	}
	resource, err := a.Resources.GetByName(ctx, resourceName)
	if err != nil {
		return fmt.Errorf("seed permission on %q: %w", resourceName, err)
	}

	var userID, groupID string
	if username != "" {
		u, err := a.Users.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("seed permission for user %q: %w", username, err)
		}
		userID = u.ID
	}
	if groupName != "" {
		g, err := a.Groups.GetByName(ctx, groupName)
		if err != nil {
			return fmt.Errorf("seed permission for group %q: %w", groupName, err)
		}
		groupID = g.ID
	}
	target, err := domain.NewPermissionTarget(userID, groupID)
	if err != nil {
		return fmt.Errorf("seed permission on %q: %w", resourceName, err)
	}

	exists, err := a.Permissions.Exists(ctx, resource.ID, act, target, "")
	if err != nil {
		return fmt.Errorf("seed permission on %q: %w", resourceName, err)
	}
	if exists {
		return nil
	}
	if _, err := a.Permissions.Create(ctx, &domain.Permission{
		ID:         domain.NewID(),
		Action:     act,
		ResourceID: resource.ID,
		Target:     target,
	}); err != nil {
		return fmt.Errorf("seed permission on %q: %w", resourceName, err)
	}
	a.Logger.Info("seeded permission", "action", action, "resource", resourceName)
	return nil
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

func isConflict(err error) bool {
	var c *domain.ConflictError
	return errors.As(err, &c)
}
