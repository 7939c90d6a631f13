package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokenbroker/internal/metrics"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

// registryUseCaseWithMetrics decorates RegistryUseCase with metrics instrumentation.
type registryUseCaseWithMetrics struct {
	next    RegistryUseCase
	metrics metrics.BusinessMetrics
}

// NewRegistryUseCaseWithMetrics wraps a RegistryUseCase with metrics recording.
func NewRegistryUseCaseWithMetrics(useCase RegistryUseCase, m metrics.BusinessMetrics) RegistryUseCase {
	return &registryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// LookupByKey records metrics for lookups by API key.
func (r *registryUseCaseWithMetrics) LookupByKey(
	ctx context.Context,
	apiKey string,
) (*tenantDomain.Tenant, error) {
	start := time.Now()
	tenant, err := r.next.LookupByKey(ctx, apiKey)
	r.record(ctx, "lookup_by_key", start, err)
	return tenant, err
}

// LookupByName records metrics for lookups by application name.
func (r *registryUseCaseWithMetrics) LookupByName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	start := time.Now()
	tenant, err := r.next.LookupByName(ctx, applicationName)
	r.record(ctx, "lookup_by_name", start, err)
	return tenant, err
}

func (r *registryUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "tenant", operation, status)
	r.metrics.RecordDuration(ctx, "tenant", operation, time.Since(start), status)
}
