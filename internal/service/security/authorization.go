// Package security implements user, group, and permission management plus
// the permission resolution used by every other service.
package security

import (
	"context"
	"fmt"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// PermissionSource provides the two reads permission resolution needs. Both
// the read-pool store and a transaction-bound store satisfy it, so the same
// resolution runs standalone or inside the booking critical section.
type PermissionSource interface {
	ListUserGroupIDs(ctx context.Context, userID string) ([]string, error)
	HasAnyPermission(ctx context.Context, resourceID string, action domain.Action, targets []domain.PermissionTarget) (bool, error)
}

// HasPermission resolves whether the user may perform action on the resource:
//  1. Superusers bypass all checks.
//  2. A direct grant to the user suffices.
//  3. Otherwise the union of the user's groups is consulted.
//
// Resolution is additive; there are no deny rules, and no action implies
// another.
func HasPermission(ctx context.Context, src PermissionSource, user domain.ContextUser, resourceID string, action domain.Action) (bool, error) {
	if user.IsSuperuser {
		return true, nil
	}

	groupIDs, err := src.ListUserGroupIDs(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("resolve groups for %s: %w", user.ID, err)
	}

	targets := make([]domain.PermissionTarget, 0, len(groupIDs)+1)
	targets = append(targets, domain.UserTarget(user.ID))
	for _, gid := range groupIDs {
		targets = append(targets, domain.GroupTarget(gid))
	}

	return src.HasAnyPermission(ctx, resourceID, action, targets)
}

// Authorize is HasPermission with a denial turned into an AccessDeniedError.
func Authorize(ctx context.Context, src PermissionSource, user domain.ContextUser, resourceID string, action domain.Action) error {
	ok, err := HasPermission(ctx, src, user, resourceID, action)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAccessDenied("you don't have permission to %s this resource", action)
	}
	return nil
}

// AuthorizationService exposes permission resolution over the read pool for
// callers outside a transaction.
type AuthorizationService struct {
	source PermissionSource
}

// NewAuthorizationService creates an AuthorizationService backed by the
// given permission source.
func NewAuthorizationService(source PermissionSource) *AuthorizationService {
	return &AuthorizationService{source: source}
}

// HasPermission reports whether the caller in context may perform action on
// the resource.
func (s *AuthorizationService) HasPermission(ctx context.Context, resourceID string, action domain.Action) (bool, error) {
	user, err := caller(ctx)
	if err != nil {
		return false, err
	}
	return HasPermission(ctx, s.source, user, resourceID, action)
}

// Authorize returns AccessDeniedError when the caller may not perform action
// on the resource.
func (s *AuthorizationService) Authorize(ctx context.Context, resourceID string, action domain.Action) error {
	user, err := caller(ctx)
	if err != nil {
		return err
	}
	return Authorize(ctx, s.source, user, resourceID, action)
}
