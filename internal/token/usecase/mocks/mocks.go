// Package mocks provides mock implementations of the token interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// MockTokenUseCase is a mock implementation of TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

// IssueByAPIKey mocks the IssueByAPIKey method.
func (m *MockTokenUseCase) IssueByAPIKey(
	ctx context.Context,
	identity *identityDomain.Identity,
	apiKey string,
) (*tokenDomain.IssuedToken, error) {
	args := m.Called(ctx, identity, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssuedToken), args.Error(1)
}

// IssueByApplication mocks the IssueByApplication method.
func (m *MockTokenUseCase) IssueByApplication(
	ctx context.Context,
	identity *identityDomain.Identity,
	applicationName string,
) (*tokenDomain.IssuedToken, error) {
	args := m.Called(ctx, identity, applicationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssuedToken), args.Error(1)
}

// Validate mocks the Validate method.
func (m *MockTokenUseCase) Validate(ctx context.Context, token, audience string) (bool, error) {
	args := m.Called(ctx, token, audience)
	return args.Bool(0), args.Error(1)
}

// Introspect mocks the Introspect method.
func (m *MockTokenUseCase) Introspect(ctx context.Context, token string) (*tokenDomain.DecodedToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.DecodedToken), args.Error(1)
}
