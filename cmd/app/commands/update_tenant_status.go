package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantUseCase "github.com/allisson/tokenbroker/internal/tenant/usecase"
)

// TenantCacheInvalidator drops cached lookups of a tenant.
type TenantCacheInvalidator interface {
	Invalidate(ctx context.Context, tenant *tenantDomain.Tenant) error
}

// RunUpdateTenantStatus activates or deactivates a tenant. Inactive tenants fail
// every lookup, so the application can no longer obtain tokens. When cache is not
// nil the cached entries are dropped so the change applies immediately.
func RunUpdateTenantStatus(
	ctx context.Context,
	tenantUseCase tenantUseCase.TenantUseCase,
	cache TenantCacheInvalidator,
	logger *slog.Logger,
	writer io.Writer,
	tenantIDStr string,
	isActive bool,
) error {
	tenantID, err := uuid.Parse(tenantIDStr)
	if err != nil {
		return fmt.Errorf("invalid tenant ID format: %w", err)
	}

	if err := tenantUseCase.SetActive(ctx, tenantID, isActive); err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}

	tenant, err := tenantUseCase.Get(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to get tenant: %w", err)
	}

	if cache != nil {
		if err := cache.Invalidate(ctx, tenant); err != nil {
			logger.Warn("failed to invalidate tenant cache",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", err),
			)
		}
	}

	status := "active"
	if !isActive {
		status = "inactive"
	}
	_, _ = fmt.Fprintf(writer, "Tenant %s (%s) is now %s\n", tenant.ID, tenant.ApplicationName, status)

	logger.Info("tenant status updated",
		slog.String("tenant_id", tenantID.String()),
		slog.Bool("is_active", isActive),
	)
	return nil
}
