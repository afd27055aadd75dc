package utils

import "context"

type identityContextKey struct{}

// Identity is the authenticated caller attached to a request context
// by the auth middleware.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
