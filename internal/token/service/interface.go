// Package service implements the token engine: key loading, claim building,
// JWT encoding and validation, and cookie/bearer delivery formatting.
package service

import (
	"context"
	"time"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// KeyManager loads signing material into a SigningContext.
type KeyManager interface {
	// Initialize builds the signing context from cfg. Returns ErrConfiguration for
	// missing or inconsistent material and ErrKeyFormat for bad RSA components.
	Initialize(ctx context.Context, cfg KeyConfig) (*tokenDomain.SigningContext, error)
}

// ClaimsBuilder derives the claim set of a token from a caller and a tenant.
type ClaimsBuilder interface {
	// Build is pure: the same inputs and the same now produce the same claims,
	// except for the random token id.
	Build(
		identity *identityDomain.Identity,
		tenant *tenantDomain.Tenant,
		now time.Time,
	) (*tokenDomain.ClaimSet, error)
}

// TokenCodec signs, validates and decodes compact JWS tokens.
type TokenCodec interface {
	// Encode signs claims. Returns ErrIssuanceDisabled when the context has no signing key.
	Encode(claims *tokenDomain.ClaimSet) (string, error)

	// Validate reports whether token verifies against audience. Ordinary rejections
	// return (false, nil). Only unexpected faults return an error, wrapping
	// ErrUnexpectedCryptoFault.
	Validate(token, audience string) (bool, error)

	// Introspect decodes token without verifying it. Returns ErrMalformedToken
	// when the token cannot be parsed.
	Introspect(token string) (*tokenDomain.DecodedToken, error)

	// CanIssue reports whether Encode can succeed.
	CanIssue() bool
}

// DeliveryFormatter renders tokens for the browser and for API callers.
type DeliveryFormatter interface {
	// TokenCookie renders the Set-Cookie header value carrying token for tenant.
	TokenCookie(token string, tenant *tenantDomain.Tenant, now time.Time) string

	// FalseCookie renders the Set-Cookie header value signalling an unauthenticated caller.
	FalseCookie() string

	// BearerPayload wraps token in the JSON body returned by bearer endpoints.
	BearerPayload(token string) tokenDomain.BearerPayload
}
