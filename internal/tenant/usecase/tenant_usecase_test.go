package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/tokenbroker/internal/database/mocks"
	apperrors "github.com/allisson/tokenbroker/internal/errors"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantService "github.com/allisson/tokenbroker/internal/tenant/service"
	tenantMocks "github.com/allisson/tokenbroker/internal/tenant/usecase/mocks"
)

func TestTenantUseCase_Create(t *testing.T) {
	ctx := context.Background()
	apiKeyService := tenantService.NewAPIKeyService()

	t.Run("Success_PersistsHashOnly", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		repo := &tenantMocks.MockTenantRepository{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("GetByApplicationName", ctx, "payroll").Return(nil, tenantDomain.ErrTenantNotFound).Once()

		var created *tenantDomain.Tenant
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Tenant")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*tenantDomain.Tenant)
			}).
			Return(nil).
			Once()

		uc := NewTenantUseCase(txManager, repo, apiKeyService, testCookieDefaults)
		output, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{
			ApplicationName: "payroll",
			Audience:        "https://payroll.example.com",
			CookiePath:      "/payroll",
			RoleRegexes:     []string{"^Finance-.*"},
			IsActive:        true,
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Len(t, output.APIKey, 32)
		assert.Equal(t, created.ID, output.ID)
		assert.Equal(t, apiKeyService.HashAPIKey(output.APIKey), created.APIKeyHash)
		assert.NotEqual(t, output.APIKey, created.APIKeyHash)
		assert.Equal(t, "sso_token", created.CookieName)
		assert.Equal(t, "example.com", created.CookieDomain)
		assert.Equal(t, "/payroll", created.CookiePath)
		assert.True(t, created.IsActive)
		assert.False(t, created.CreatedAt.IsZero())

		txManager.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Error_DuplicateApplicationName", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		repo := &tenantMocks.MockTenantRepository{}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("GetByApplicationName", ctx, "payroll").Return(newActiveTenant(), nil).Once()

		uc := NewTenantUseCase(txManager, repo, apiKeyService, testCookieDefaults)
		output, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{
			ApplicationName: "payroll",
			Audience:        "https://payroll.example.com",
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, tenantDomain.ErrApplicationNameAlreadyExists)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidRoleRegex", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		repo := &tenantMocks.MockTenantRepository{}

		uc := NewTenantUseCase(txManager, repo, apiKeyService, testCookieDefaults)
		_, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{
			ApplicationName: "payroll",
			Audience:        "https://payroll.example.com",
			RoleRegexes:     []string{"Finance-(unclosed"},
		})
		assert.ErrorIs(t, err, tenantDomain.ErrInvalidRoleRegex)
		txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingAudience", func(t *testing.T) {
		uc := NewTenantUseCase(
			&databaseMocks.MockTxManager{},
			&tenantMocks.MockTenantRepository{},
			apiKeyService,
			testCookieDefaults,
		)
		_, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{ApplicationName: "payroll"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_MissingApplicationName", func(t *testing.T) {
		uc := NewTenantUseCase(
			&databaseMocks.MockTxManager{},
			&tenantMocks.MockTenantRepository{},
			apiKeyService,
			testCookieDefaults,
		)
		_, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{Audience: "aud"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_TransactionFailure", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		txErr := errors.New("begin failed")
		txManager.On("WithTx", ctx, mock.Anything).Return(txErr).Once()

		uc := NewTenantUseCase(txManager, &tenantMocks.MockTenantRepository{}, apiKeyService, testCookieDefaults)
		_, err := uc.Create(ctx, &tenantDomain.CreateTenantInput{ApplicationName: "payroll", Audience: "aud"})
		assert.ErrorIs(t, err, txErr)
	})
}

func TestTenantUseCase_SetActive(t *testing.T) {
	ctx := context.Background()
	apiKeyService := tenantService.NewAPIKeyService()

	t.Run("Success_Deactivate", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		repo := &tenantMocks.MockTenantRepository{}
		stored := newActiveTenant()

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Get", ctx, stored.ID).Return(stored, nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(tenant *tenantDomain.Tenant) bool {
			return tenant.ID == stored.ID && !tenant.IsActive
		})).Return(nil).Once()

		uc := NewTenantUseCase(txManager, repo, apiKeyService, testCookieDefaults)
		require.NoError(t, uc.SetActive(ctx, stored.ID, false))
		repo.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		repo := &tenantMocks.MockTenantRepository{}
		tenantID := uuid.Must(uuid.NewV7())

		txManager.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		repo.On("Get", ctx, tenantID).Return(nil, tenantDomain.ErrTenantNotFound).Once()

		uc := NewTenantUseCase(txManager, repo, apiKeyService, testCookieDefaults)
		err := uc.SetActive(ctx, tenantID, true)
		assert.ErrorIs(t, err, tenantDomain.ErrTenantNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTenantUseCase_List(t *testing.T) {
	ctx := context.Background()
	repo := &tenantMocks.MockTenantRepository{}
	tenants := []*tenantDomain.Tenant{newActiveTenant(), newActiveTenant()}
	repo.On("List", ctx, 0, 50).Return(tenants, nil).Once()

	uc := NewTenantUseCase(&databaseMocks.MockTxManager{}, repo, tenantService.NewAPIKeyService(), testCookieDefaults)
	result, err := uc.List(ctx, 0, 50)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}
