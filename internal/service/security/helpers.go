package security

import (
	"context"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// requireSuperuser checks that the caller in context has superuser privileges.
// Returns AccessDeniedError if not authenticated or not superuser.
func requireSuperuser(ctx context.Context) error {
	u, ok := domain.UserFromContext(ctx)
	if !ok {
		return domain.ErrAccessDenied("authentication required")
	}
	if !u.IsSuperuser {
		return domain.ErrAccessDenied("superuser privileges required")
	}
	return nil
}

// caller returns the authenticated user from context.
func caller(ctx context.Context) (domain.ContextUser, error) {
	u, ok := domain.UserFromContext(ctx)
	if !ok {
		return domain.ContextUser{}, domain.ErrAccessDenied("authentication required")
	}
	return u, nil
}
