// Package usecase defines the tenant registry operations consumed by the token
// engine and the management operations used by the CLI.
package usecase

import (
	"context"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

// TenantLookupRepository defines the read paths the token engine needs.
// Implementations return inactive tenants as stored; the registry filters them.
type TenantLookupRepository interface {
	// GetByAPIKeyHash retrieves a tenant by the SHA-256 hash of its API key.
	// Returns ErrTenantNotFound if not found.
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*tenantDomain.Tenant, error)

	// GetByApplicationName retrieves a tenant by its exact application name.
	// Returns ErrTenantNotFound if not found.
	GetByApplicationName(ctx context.Context, applicationName string) (*tenantDomain.Tenant, error)
}

// TenantRepository defines persistence operations for tenants.
// Implementations must support transaction-aware operations via context propagation.
type TenantRepository interface {
	TenantLookupRepository

	// Create stores a new tenant.
	Create(ctx context.Context, tenant *tenantDomain.Tenant) error

	// Update modifies an existing tenant.
	Update(ctx context.Context, tenant *tenantDomain.Tenant) error

	// Get retrieves a tenant by ID. Returns ErrTenantNotFound if not found.
	Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error)

	// List retrieves tenants ordered by ID descending with pagination.
	List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error)
}

// RegistryUseCase is the tenant registry as seen by the token engine.
//
// Both lookups return ErrTenantNotFound for unknown keys, unknown names and
// inactive tenants alike, so callers cannot tell which tenants exist. Returned
// tenants always carry cookie settings, defaulted from the global token
// settings where the tenant does not override them.
type RegistryUseCase interface {
	// LookupByKey resolves a tenant from the plain API key presented by a caller.
	LookupByKey(ctx context.Context, apiKey string) (*tenantDomain.Tenant, error)

	// LookupByName resolves a tenant from its application name.
	LookupByName(ctx context.Context, applicationName string) (*tenantDomain.Tenant, error)
}

// TenantUseCase defines management operations for tenants.
type TenantUseCase interface {
	// Create registers a new tenant with a freshly generated API key.
	// Role regexes are compiled up front and rejected with ErrInvalidRoleRegex.
	// Returns ErrApplicationNameAlreadyExists when the name is taken.
	//
	// The plain API key is only returned here; only its hash is persisted.
	Create(ctx context.Context, input *tenantDomain.CreateTenantInput) (*tenantDomain.CreateTenantOutput, error)

	// Get retrieves a tenant by ID. Returns ErrTenantNotFound if not found.
	Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error)

	// List retrieves tenants ordered by ID descending with pagination.
	List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error)

	// SetActive activates or deactivates a tenant. Inactive tenants fail every lookup.
	SetActive(ctx context.Context, tenantID uuid.UUID, isActive bool) error
}
