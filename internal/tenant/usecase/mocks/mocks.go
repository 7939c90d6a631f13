// Package mocks provides mock implementations of the tenant interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

// MockTenantRepository is a mock implementation of TenantRepository.
type MockTenantRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTenantRepository) Create(ctx context.Context, tenant *tenantDomain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// Update mocks the Update method.
func (m *MockTenantRepository) Update(ctx context.Context, tenant *tenantDomain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockTenantRepository) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// List mocks the List method.
func (m *MockTenantRepository) List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tenantDomain.Tenant), args.Error(1)
}

// GetByAPIKeyHash mocks the GetByAPIKeyHash method.
func (m *MockTenantRepository) GetByAPIKeyHash(
	ctx context.Context,
	apiKeyHash string,
) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, apiKeyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// GetByApplicationName mocks the GetByApplicationName method.
func (m *MockTenantRepository) GetByApplicationName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, applicationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// MockRegistryUseCase is a mock implementation of RegistryUseCase.
type MockRegistryUseCase struct {
	mock.Mock
}

// LookupByKey mocks the LookupByKey method.
func (m *MockRegistryUseCase) LookupByKey(ctx context.Context, apiKey string) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// LookupByName mocks the LookupByName method.
func (m *MockRegistryUseCase) LookupByName(
	ctx context.Context,
	applicationName string,
) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, applicationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// MockTenantUseCase is a mock implementation of TenantUseCase.
type MockTenantUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockTenantUseCase) Create(
	ctx context.Context,
	input *tenantDomain.CreateTenantInput,
) (*tenantDomain.CreateTenantOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.CreateTenantOutput), args.Error(1)
}

// Get mocks the Get method.
func (m *MockTenantUseCase) Get(ctx context.Context, tenantID uuid.UUID) (*tenantDomain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Tenant), args.Error(1)
}

// List mocks the List method.
func (m *MockTenantUseCase) List(ctx context.Context, offset, limit int) ([]*tenantDomain.Tenant, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tenantDomain.Tenant), args.Error(1)
}

// SetActive mocks the SetActive method.
func (m *MockTenantUseCase) SetActive(ctx context.Context, tenantID uuid.UUID, isActive bool) error {
	args := m.Called(ctx, tenantID, isActive)
	return args.Error(0)
}
