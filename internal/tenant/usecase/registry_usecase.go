package usecase

import (
	"context"
	"strings"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantService "github.com/allisson/tokenbroker/internal/tenant/service"
)

// registryUseCase implements RegistryUseCase on top of a lookup repository.
type registryUseCase struct {
	lookupRepo     TenantLookupRepository
	apiKeyService  tenantService.APIKeyService
	cookieDefaults tenantDomain.CookieDefaults
}

// LookupByKey hashes the presented key and resolves the active tenant owning it.
func (r *registryUseCase) LookupByKey(ctx context.Context, apiKey string) (*tenantDomain.Tenant, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, tenantDomain.ErrTenantNotFound
	}

	tenant, err := r.lookupRepo.GetByAPIKeyHash(ctx, r.apiKeyService.HashAPIKey(apiKey))
	return r.accept(tenant, err)
}

// LookupByName resolves the active tenant registered under applicationName.
func (r *registryUseCase) LookupByName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	if strings.TrimSpace(applicationName) == "" {
		return nil, tenantDomain.ErrTenantNotFound
	}

	tenant, err := r.lookupRepo.GetByApplicationName(ctx, applicationName)
	return r.accept(tenant, err)
}

// accept filters inactive tenants and applies cookie defaults to a copy so a
// cached or shared tenant value is never mutated.
func (r *registryUseCase) accept(tenant *tenantDomain.Tenant, err error) (*tenantDomain.Tenant, error) {
	if err != nil {
		if apperrors.Is(err, tenantDomain.ErrTenantNotFound) {
			return nil, tenantDomain.ErrTenantNotFound
		}
		return nil, err
	}
	if tenant == nil || !tenant.IsActive {
		return nil, tenantDomain.ErrTenantNotFound
	}

	resolved := *tenant
	resolved.RoleRegexes = append([]string(nil), tenant.RoleRegexes...)
	resolved.ApplyCookieDefaults(r.cookieDefaults)
	return &resolved, nil
}

// NewRegistryUseCase creates a new RegistryUseCase.
func NewRegistryUseCase(
	lookupRepo TenantLookupRepository,
	apiKeyService tenantService.APIKeyService,
	cookieDefaults tenantDomain.CookieDefaults,
) RegistryUseCase {
	return &registryUseCase{
		lookupRepo:     lookupRepo,
		apiKeyService:  apiKeyService,
		cookieDefaults: cookieDefaults,
	}
}
