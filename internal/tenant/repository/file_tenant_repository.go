package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantService "github.com/allisson/tokenbroker/internal/tenant/service"
)

// fileTenant is the YAML shape of a tenant entry.
//
// Either api_key (plain, hashed at load time) or api_key_hash must be set.
// is_active defaults to true.
type fileTenant struct {
	ID              string   `yaml:"id"`
	APIKey          string   `yaml:"api_key"`
	APIKeyHash      string   `yaml:"api_key_hash"`
	ApplicationName string   `yaml:"application_name"`
	Audience        string   `yaml:"audience"`
	CookieName      string   `yaml:"cookie_name"`
	CookieDomain    string   `yaml:"cookie_domain"`
	CookiePath      string   `yaml:"cookie_path"`
	RoleRegexes     []string `yaml:"role_regexes"`
	IsActive        *bool    `yaml:"is_active"`
}

type fileRegistry struct {
	Tenants []fileTenant `yaml:"tenants"`
}

// FileTenantRepository is a read-only tenant registry loaded once from a YAML file.
type FileTenantRepository struct {
	byKeyHash map[string]*tenantDomain.Tenant
	byName    map[string]*tenantDomain.Tenant
}

// GetByAPIKeyHash returns the tenant registered with apiKeyHash.
func (f *FileTenantRepository) GetByAPIKeyHash(
	_ context.Context,
	apiKeyHash string,
) (*tenantDomain.Tenant, error) {
	tenant, ok := f.byKeyHash[apiKeyHash]
	if !ok {
		return nil, tenantDomain.ErrTenantNotFound
	}
	return cloneTenant(tenant), nil
}

// GetByApplicationName returns the tenant registered under applicationName.
func (f *FileTenantRepository) GetByApplicationName(
	_ context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	tenant, ok := f.byName[applicationName]
	if !ok {
		return nil, tenantDomain.ErrTenantNotFound
	}
	return cloneTenant(tenant), nil
}

// Len returns the number of loaded tenants.
func (f *FileTenantRepository) Len() int {
	return len(f.byName)
}

func cloneTenant(tenant *tenantDomain.Tenant) *tenantDomain.Tenant {
	clone := *tenant
	clone.RoleRegexes = append([]string(nil), tenant.RoleRegexes...)
	return &clone
}

// LoadFileTenantRepository reads and parses the registry file at path.
func LoadFileTenantRepository(
	path string,
	apiKeyService tenantService.APIKeyService,
) (*FileTenantRepository, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant registry file: %w", err)
	}
	return ParseFileTenantRepository(data, apiKeyService)
}

// ParseFileTenantRepository builds a registry from YAML content.
// Duplicate application names or API keys and invalid role regexes are rejected.
func ParseFileTenantRepository(
	data []byte,
	apiKeyService tenantService.APIKeyService,
) (*FileTenantRepository, error) {
	var registry fileRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse tenant registry file: %w", err)
	}

	repo := &FileTenantRepository{
		byKeyHash: make(map[string]*tenantDomain.Tenant, len(registry.Tenants)),
		byName:    make(map[string]*tenantDomain.Tenant, len(registry.Tenants)),
	}
	loadedAt := time.Now().UTC()

	for i, entry := range registry.Tenants {
		tenant, err := entry.toDomain(apiKeyService, loadedAt)
		if err != nil {
			return nil, fmt.Errorf("tenant #%d: %w", i+1, err)
		}
		if _, exists := repo.byName[tenant.ApplicationName]; exists {
			return nil, fmt.Errorf("tenant #%d: duplicate application name %q", i+1, tenant.ApplicationName)
		}
		if _, exists := repo.byKeyHash[tenant.APIKeyHash]; exists {
			return nil, fmt.Errorf("tenant #%d: duplicate api key", i+1)
		}
		repo.byName[tenant.ApplicationName] = tenant
		repo.byKeyHash[tenant.APIKeyHash] = tenant
	}

	return repo, nil
}

func (e fileTenant) toDomain(
	apiKeyService tenantService.APIKeyService,
	loadedAt time.Time,
) (*tenantDomain.Tenant, error) {
	if strings.TrimSpace(e.ApplicationName) == "" {
		return nil, fmt.Errorf("application_name is required")
	}
	if strings.TrimSpace(e.Audience) == "" {
		return nil, fmt.Errorf("audience is required for %q", e.ApplicationName)
	}

	keyHash := strings.ToLower(strings.TrimSpace(e.APIKeyHash))
	if plain := strings.TrimSpace(e.APIKey); plain != "" {
		keyHash = apiKeyService.HashAPIKey(plain)
	}
	if keyHash == "" {
		return nil, fmt.Errorf("api_key or api_key_hash is required for %q", e.ApplicationName)
	}

	if _, err := tenantDomain.CompileRoleRegexes(e.RoleRegexes); err != nil {
		return nil, err
	}

	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(e.ApplicationName))
	if e.ID != "" {
		parsed, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid id for %q: %w", e.ApplicationName, err)
		}
		id = parsed
	}

	isActive := true
	if e.IsActive != nil {
		isActive = *e.IsActive
	}

	roleRegexes := make([]string, 0, len(e.RoleRegexes))
	roleRegexes = append(roleRegexes, e.RoleRegexes...)

	return &tenantDomain.Tenant{
		ID:              id,
		APIKeyHash:      keyHash,
		ApplicationName: e.ApplicationName,
		Audience:        e.Audience,
		CookieName:      e.CookieName,
		CookieDomain:    e.CookieDomain,
		CookiePath:      e.CookiePath,
		RoleRegexes:     roleRegexes,
		IsActive:        isActive,
		CreatedAt:       loadedAt,
	}, nil
}
