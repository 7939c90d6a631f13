package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantMocks "github.com/allisson/tokenbroker/internal/tenant/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordIssuance(ctx context.Context, tenant, lookup string) {
	m.Called(ctx, tenant, lookup)
}

func TestRegistryUseCaseWithMetrics_LookupByKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccess", func(t *testing.T) {
		next := &tenantMocks.MockRegistryUseCase{}
		m := &mockBusinessMetrics{}
		tenant := newActiveTenant()

		next.On("LookupByKey", ctx, "key").Return(tenant, nil).Once()
		m.On("RecordOperation", ctx, "tenant", "lookup_by_key", "success").Once()
		m.On("RecordDuration", ctx, "tenant", "lookup_by_key", mock.AnythingOfType("time.Duration"), "success").
			Once()

		uc := NewRegistryUseCaseWithMetrics(next, m)
		result, err := uc.LookupByKey(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, tenant, result)
		m.AssertExpectations(t)
	})

	t.Run("Error_RecordsError", func(t *testing.T) {
		next := &tenantMocks.MockRegistryUseCase{}
		m := &mockBusinessMetrics{}

		next.On("LookupByKey", ctx, "key").Return(nil, tenantDomain.ErrTenantNotFound).Once()
		m.On("RecordOperation", ctx, "tenant", "lookup_by_key", "error").Once()
		m.On("RecordDuration", ctx, "tenant", "lookup_by_key", mock.AnythingOfType("time.Duration"), "error").
			Once()

		uc := NewRegistryUseCaseWithMetrics(next, m)
		_, err := uc.LookupByKey(ctx, "key")
		assert.ErrorIs(t, err, tenantDomain.ErrTenantNotFound)
		m.AssertExpectations(t)
	})
}

func TestRegistryUseCaseWithMetrics_LookupByName(t *testing.T) {
	ctx := context.Background()
	next := &tenantMocks.MockRegistryUseCase{}
	m := &mockBusinessMetrics{}

	next.On("LookupByName", ctx, "payroll").Return(newActiveTenant(), nil).Once()
	m.On("RecordOperation", ctx, "tenant", "lookup_by_name", "success").Once()
	m.On("RecordDuration", ctx, "tenant", "lookup_by_name", mock.AnythingOfType("time.Duration"), "success").Once()

	uc := NewRegistryUseCaseWithMetrics(next, m)
	_, err := uc.LookupByName(ctx, "payroll")
	require.NoError(t, err)
	m.AssertExpectations(t)
}
