package app

import (
	"fmt"

	"github.com/allisson/tokenbroker/internal/config"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantRepository "github.com/allisson/tokenbroker/internal/tenant/repository"
	tenantService "github.com/allisson/tokenbroker/internal/tenant/service"
	tenantUseCase "github.com/allisson/tokenbroker/internal/tenant/usecase"
)

// APIKeyService returns the API key generator and hasher.
func (c *Container) APIKeyService() tenantService.APIKeyService {
	c.apiKeyServiceInit.Do(func() {
		c.apiKeyService = tenantService.NewAPIKeyService()
	})
	return c.apiKeyService
}

// TenantRepository returns the SQL tenant repository for the configured driver.
func (c *Container) TenantRepository() (tenantUseCase.TenantRepository, error) {
	c.tenantRepositoryInit.Do(func() {
		repo, err := c.initTenantRepository()
		if err != nil {
			c.setInitError("tenantRepository", err)
			return
		}
		c.tenantRepository = repo
	})
	if err := c.initError("tenantRepository"); err != nil {
		return nil, err
	}
	return c.tenantRepository, nil
}

// TenantLookupRepository returns the lookup path used by the token engine, backed by
// the SQL or file registry and optionally fronted by the Redis cache.
func (c *Container) TenantLookupRepository() (tenantUseCase.TenantLookupRepository, error) {
	c.tenantLookupInit.Do(func() {
		lookup, err := c.initTenantLookupRepository()
		if err != nil {
			c.setInitError("tenantLookup", err)
			return
		}
		c.tenantLookup = lookup
	})
	if err := c.initError("tenantLookup"); err != nil {
		return nil, err
	}
	return c.tenantLookup, nil
}

// TenantCache returns the Redis tenant cache, or nil when caching is disabled.
func (c *Container) TenantCache() (*tenantRepository.RedisTenantCache, error) {
	if _, err := c.TenantLookupRepository(); err != nil {
		return nil, err
	}
	return c.tenantCache, nil
}

// RegistryUseCase returns the tenant registry consumed by the token engine.
func (c *Container) RegistryUseCase() (tenantUseCase.RegistryUseCase, error) {
	c.registryUseCaseInit.Do(func() {
		uc, err := c.initRegistryUseCase()
		if err != nil {
			c.setInitError("registryUseCase", err)
			return
		}
		c.registryUseCase = uc
	})
	if err := c.initError("registryUseCase"); err != nil {
		return nil, err
	}
	return c.registryUseCase, nil
}

// TenantUseCase returns the tenant management use case.
func (c *Container) TenantUseCase() (tenantUseCase.TenantUseCase, error) {
	c.tenantUseCaseInit.Do(func() {
		uc, err := c.initTenantUseCase()
		if err != nil {
			c.setInitError("tenantUseCase", err)
			return
		}
		c.tenantUseCase = uc
	})
	if err := c.initError("tenantUseCase"); err != nil {
		return nil, err
	}
	return c.tenantUseCase, nil
}

// cookieDefaults returns the global cookie settings applied to tenants.
func (c *Container) cookieDefaults() tenantDomain.CookieDefaults {
	return tenantDomain.CookieDefaults{
		Name:   c.config.TokenName,
		Domain: c.config.TokenCookieDomain,
		Path:   c.config.TokenCookiePath,
	}
}

func (c *Container) initTenantRepository() (tenantUseCase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tenantRepository.NewPostgreSQLTenantRepository(db), nil
	case "mysql":
		return tenantRepository.NewMySQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initTenantLookupRepository() (tenantUseCase.TenantLookupRepository, error) {
	var lookup tenantUseCase.TenantLookupRepository

	switch c.config.TenantRegistry {
	case config.TenantRegistryFile:
		repo, err := tenantRepository.LoadFileTenantRepository(c.config.TenantRegistryFile, c.APIKeyService())
		if err != nil {
			return nil, fmt.Errorf("failed to load tenant registry file: %w", err)
		}
		c.Logger().Info("tenant registry loaded from file",
			"path", c.config.TenantRegistryFile,
			"tenants", repo.Len(),
		)
		lookup = repo
	case config.TenantRegistrySQL:
		repo, err := c.TenantRepository()
		if err != nil {
			return nil, err
		}
		lookup = repo
	default:
		return nil, fmt.Errorf("unsupported tenant registry: %s", c.config.TenantRegistry)
	}

	if !c.config.TenantCacheEnabled {
		return lookup, nil
	}

	c.tenantCache = tenantRepository.NewRedisTenantCache(
		lookup,
		c.RedisClient(),
		c.config.TenantCacheTTL,
		c.Logger(),
	)
	return c.tenantCache, nil
}

func (c *Container) initRegistryUseCase() (tenantUseCase.RegistryUseCase, error) {
	lookup, err := c.TenantLookupRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant lookup for registry use case: %w", err)
	}

	baseUseCase := tenantUseCase.NewRegistryUseCase(lookup, c.APIKeyService(), c.cookieDefaults())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for registry use case: %w", err)
		}
		return tenantUseCase.NewRegistryUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initTenantUseCase() (tenantUseCase.TenantUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for tenant use case: %w", err)
	}

	repo, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}

	return tenantUseCase.NewTenantUseCase(txManager, repo, c.APIKeyService(), c.cookieDefaults()), nil
}
