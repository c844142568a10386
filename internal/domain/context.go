package domain

import "context"

type userKey struct{}

// ContextUser carries the authenticated identity through request context.
// It is supplied by the auth middleware; the core never authenticates
// credentials itself.
type ContextUser struct {
	ID          string
	Email       string
	Username    string
	IsSuperuser bool
}

// WithUser stores a ContextUser in the context.
func WithUser(ctx context.Context, u ContextUser) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext extracts the ContextUser from the context.
func UserFromContext(ctx context.Context) (ContextUser, bool) {
	u, ok := ctx.Value(userKey{}).(ContextUser)
	return u, ok
}
