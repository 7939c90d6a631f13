package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantMocks "github.com/allisson/tokenbroker/internal/tenant/usecase/mocks"
)

type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, tenant *tenantDomain.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func TestRunUpdateTenantStatus(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tenantID := uuid.New()
	tenant := &tenantDomain.Tenant{ID: tenantID, ApplicationName: "billing", APIKeyHash: "hash"}

	t.Run("deactivate-and-invalidate", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("SetActive", ctx, tenantID, false).Return(nil)
		mockUseCase.On("Get", ctx, tenantID).Return(tenant, nil)

		cache := &mockInvalidator{}
		cache.On("Invalidate", ctx, tenant).Return(nil)

		var out bytes.Buffer
		err := RunUpdateTenantStatus(ctx, mockUseCase, cache, logger, &out, tenantID.String(), false)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "billing")
		assert.Contains(t, out.String(), "is now inactive")
		mockUseCase.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("activate-without-cache", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("SetActive", ctx, tenantID, true).Return(nil)
		mockUseCase.On("Get", ctx, tenantID).Return(tenant, nil)

		var out bytes.Buffer
		err := RunUpdateTenantStatus(ctx, mockUseCase, nil, logger, &out, tenantID.String(), true)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "is now active")
	})

	t.Run("cache-failure-is-not-fatal", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("SetActive", ctx, tenantID, false).Return(nil)
		mockUseCase.On("Get", ctx, tenantID).Return(tenant, nil)

		cache := &mockInvalidator{}
		cache.On("Invalidate", ctx, tenant).Return(errors.New("redis down"))

		err := RunUpdateTenantStatus(ctx, mockUseCase, cache, logger, &bytes.Buffer{}, tenantID.String(), false)
		assert.NoError(t, err)
	})

	t.Run("invalid-id", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}

		err := RunUpdateTenantStatus(ctx, mockUseCase, nil, logger, &bytes.Buffer{}, "not-a-uuid", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid tenant ID format")
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("SetActive", ctx, tenantID, false).Return(tenantDomain.ErrTenantNotFound)

		err := RunUpdateTenantStatus(ctx, mockUseCase, nil, logger, &bytes.Buffer{}, tenantID.String(), false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, tenantDomain.ErrTenantNotFound))
	})
}
