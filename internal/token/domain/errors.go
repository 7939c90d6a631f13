package domain

import (
	"github.com/allisson/tokenbroker/internal/errors"
)

// Key loading errors. Both are fatal at startup.
var (
	// ErrConfiguration indicates missing, unreadable or inconsistent key material.
	ErrConfiguration = errors.New("invalid token signing configuration")

	// ErrKeyFormat indicates an RSA key component that is missing or not valid base64.
	ErrKeyFormat = errors.New("invalid key format")
)

// Token errors.
var (
	// ErrIssuanceDisabled indicates the process holds no signing key (RSA public key only).
	ErrIssuanceDisabled = errors.Wrap(errors.ErrUnavailable, "token issuance is disabled")

	// ErrUnauthenticated indicates the request carries no caller identity.
	ErrUnauthenticated = errors.Wrap(errors.ErrUnauthorized, "caller is not authenticated")

	// ErrUnknownTenant indicates the API key or application name matches no active tenant.
	ErrUnknownTenant = errors.Wrap(errors.ErrNotFound, "unknown tenant")

	// ErrMalformedToken indicates the token cannot be decoded at all.
	ErrMalformedToken = errors.Wrap(errors.ErrInvalidInput, "malformed token")

	// ErrUnexpectedCryptoFault indicates a failure that is not a verdict on the token itself,
	// such as a key type mismatch or an unavailable hash.
	ErrUnexpectedCryptoFault = errors.New("unexpected cryptographic fault")
)
