package domain

import (
	"fmt"

	"github.com/allisson/tokenbroker/internal/errors"
)

// Tenant errors.
var (
	// ErrTenantNotFound indicates no active tenant matches the lookup key.
	ErrTenantNotFound = errors.Wrap(errors.ErrNotFound, "tenant not found")

	// ErrApplicationNameAlreadyExists indicates another tenant already uses the application name.
	ErrApplicationNameAlreadyExists = errors.Wrap(errors.ErrConflict, "application name already exists")

	// ErrInvalidRoleRegex indicates a role pattern does not compile.
	ErrInvalidRoleRegex = errors.Wrap(errors.ErrInvalidInput, "invalid role regex")
)

func wrapInvalidRoleRegex(pattern string, cause error) error {
	return fmt.Errorf("%w %q: %v", ErrInvalidRoleRegex, pattern, cause)
}
