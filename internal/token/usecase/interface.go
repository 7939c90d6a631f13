// Package usecase orchestrates token issuance, validation and introspection.
package usecase

import (
	"context"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// TokenUseCase defines the token operations exposed over HTTP.
type TokenUseCase interface {
	// IssueByAPIKey issues a token for identity scoped to the tenant owning apiKey.
	// Returns ErrUnauthenticated when identity is nil and ErrUnknownTenant when no
	// active tenant matches.
	IssueByAPIKey(
		ctx context.Context,
		identity *identityDomain.Identity,
		apiKey string,
	) (*tokenDomain.IssuedToken, error)

	// IssueByApplication issues a token for identity scoped to the named tenant.
	IssueByApplication(
		ctx context.Context,
		identity *identityDomain.Identity,
		applicationName string,
	) (*tokenDomain.IssuedToken, error)

	// Validate reports whether token is acceptable for audience.
	Validate(ctx context.Context, token, audience string) (bool, error)

	// Introspect decodes token without verifying it.
	Introspect(ctx context.Context, token string) (*tokenDomain.DecodedToken, error)
}
