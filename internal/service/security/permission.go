package security

import (
	"context"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// PermissionService manages permission grants. All mutations are superuser
// only. Every referenced entity is checked for existence so a grant can
// never dangle at creation time.
type PermissionService struct {
	permissions domain.PermissionRepository
	resources   domain.ResourceRepository
	users       domain.UserRepository
	groups      domain.GroupRepository
}

// NewPermissionService creates a new PermissionService.
func NewPermissionService(
	permissions domain.PermissionRepository,
	resources domain.ResourceRepository,
	users domain.UserRepository,
	groups domain.GroupRepository,
) *PermissionService {
	return &PermissionService{
		permissions: permissions,
		resources:   resources,
		users:       users,
		groups:      groups,
	}
}

// validateReferences ensures the resource and the target entity exist.
func (s *PermissionService) validateReferences(ctx context.Context, resourceID string, target domain.PermissionTarget) error {
	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		return err
	}
	if userID, ok := target.UserID(); ok {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return err
		}
	}
	if groupID, ok := target.GroupID(); ok {
		if _, err := s.groups.GetByID(ctx, groupID); err != nil {
			return err
		}
	}
	return nil
}

// Create grants an action on a resource to a user or a group. An identical
// (resource, action, target) tuple is a conflict, not a second grant.
func (s *PermissionService) Create(ctx context.Context, req *domain.CreatePermissionRequest) (*domain.Permission, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, err
	}
	action, target, err := req.Parse()
	if err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, req.ResourceID, target); err != nil {
		return nil, err
	}

	exists, err := s.permissions.Exists(ctx, req.ResourceID, action, target, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict("permission %s on resource %s for %s already exists",
			action, req.ResourceID, target)
	}

	return s.permissions.Create(ctx, &domain.Permission{
		ID:         domain.NewID(),
		Action:     action,
		ResourceID: req.ResourceID,
		Target:     target,
	})
}

// GetByID returns a permission by ID. Superuser only.
func (s *PermissionService) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, err
	}
	return s.permissions.GetByID(ctx, id)
}

// List returns a filtered, paginated list of permissions. Superuser only.
func (s *PermissionService) List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) ([]domain.Permission, int64, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, 0, err
	}
	return s.permissions.List(ctx, filter, page)
}

// Update rewrites a permission. Retargeting from a user to a group (or back)
// clears the previous target; the XOR invariant survives every update.
func (s *PermissionService) Update(ctx context.Context, id string, req *domain.CreatePermissionRequest) (*domain.Permission, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, err
	}
	action, target, err := req.Parse()
	if err != nil {
		return nil, err
	}

	existing, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, req.ResourceID, target); err != nil {
		return nil, err
	}

	duplicate, err := s.permissions.Exists(ctx, req.ResourceID, action, target, id)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, domain.ErrConflict("permission %s on resource %s for %s already exists",
			action, req.ResourceID, target)
	}

	existing.Action = action
	existing.ResourceID = req.ResourceID
	existing.Target = target
	if err := s.permissions.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete revokes a permission. Revocation takes effect on the next check;
// existing bookings are not retroactively cancelled.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if err := requireSuperuser(ctx); err != nil {
		return err
	}
	return s.permissions.Delete(ctx, id)
}
