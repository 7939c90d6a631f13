// Package http resolves the caller identity from incoming requests and carries
// it through the request context.
package http

import (
	"context"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
)

// identityKey is a context key type for storing the resolved caller identity.
type identityKey struct{}

// WithIdentity stores the resolved caller identity in the context.
func WithIdentity(ctx context.Context, identity *identityDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the caller identity from the context.
// Returns (nil, false) when the request is unauthenticated.
func GetIdentity(ctx context.Context) (*identityDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*identityDomain.Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
