package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

const tenantCacheKeyPrefix = "tokenbroker:tenant:"

// TenantLookup is the read path cached by RedisTenantCache.
type TenantLookup interface {
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*tenantDomain.Tenant, error)
	GetByApplicationName(ctx context.Context, applicationName string) (*tenantDomain.Tenant, error)
}

// RedisTenantCache is a read-through cache in front of a tenant lookup.
//
// Only hits are cached. Redis failures are logged and the lookup falls back to
// the underlying repository.
type RedisTenantCache struct {
	next   TenantLookup
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// GetByAPIKeyHash returns the cached tenant for apiKeyHash or loads it from the next lookup.
func (r *RedisTenantCache) GetByAPIKeyHash(
	ctx context.Context,
	apiKeyHash string,
) (*tenantDomain.Tenant, error) {
	return r.getOrLoad(ctx, tenantCacheKeyPrefix+"key:"+apiKeyHash, func() (*tenantDomain.Tenant, error) {
		return r.next.GetByAPIKeyHash(ctx, apiKeyHash)
	})
}

// GetByApplicationName returns the cached tenant for applicationName or loads it from the next lookup.
func (r *RedisTenantCache) GetByApplicationName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	return r.getOrLoad(ctx, tenantCacheKeyPrefix+"name:"+applicationName, func() (*tenantDomain.Tenant, error) {
		return r.next.GetByApplicationName(ctx, applicationName)
	})
}

// Invalidate drops every cached entry for tenant.
func (r *RedisTenantCache) Invalidate(ctx context.Context, tenant *tenantDomain.Tenant) error {
	err := r.client.Del(
		ctx,
		tenantCacheKeyPrefix+"key:"+tenant.APIKeyHash,
		tenantCacheKeyPrefix+"name:"+tenant.ApplicationName,
	).Err()
	if err != nil {
		return apperrors.Wrap(err, "failed to invalidate tenant cache")
	}
	return nil
}

func (r *RedisTenantCache) getOrLoad(
	ctx context.Context,
	key string,
	load func() (*tenantDomain.Tenant, error),
) (*tenantDomain.Tenant, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var tenant tenantDomain.Tenant
		if err := json.Unmarshal(data, &tenant); err == nil {
			return &tenant, nil
		}
		r.logger.Warn("discarding corrupt tenant cache entry", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("tenant cache read failed", slog.Any("error", err))
	}

	tenant, err := load()
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(tenant)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant for cache")
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("tenant cache write failed", slog.Any("error", err))
	}

	return tenant, nil
}

// NewRedisTenantCache wraps next with a Redis read-through cache.
func NewRedisTenantCache(
	next TenantLookup,
	client redis.UniversalClient,
	ttl time.Duration,
	logger *slog.Logger,
) *RedisTenantCache {
	return &RedisTenantCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}
