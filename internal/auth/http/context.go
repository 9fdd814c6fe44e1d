package http

import (
	"context"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the authenticated principal in the context.
func WithPrincipal(ctx context.Context, principal *authDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (nil, false) when the request is unauthenticated.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return principal, ok && principal != nil
}

type lookupFailureKey struct{}

// withLookupFailure records that the gate could not decide whether the request is
// authenticated.
func withLookupFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, lookupFailureKey{}, err)
}

func lookupFailure(ctx context.Context) error {
	err, _ := ctx.Value(lookupFailureKey{}).(error)
	return err
}
