package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantMocks "github.com/allisson/tokenbroker/internal/tenant/usecase/mocks"
)

func TestRunCreateTenant(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tenantID := uuid.New()

	input := &tenantDomain.CreateTenantInput{
		ApplicationName: "billing",
		Audience:        "https://billing.example.com",
		RoleRegexes:     []string{`^billing-(\w+)$`},
		IsActive:        true,
	}
	output := &tenantDomain.CreateTenantOutput{ID: tenantID, APIKey: "plain-api-key"}

	t.Run("text", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateTenant(ctx, mockUseCase, logger, &out, input, "text")

		require.NoError(t, err)
		assert.Contains(t, out.String(), tenantID.String())
		assert.Contains(t, out.String(), "API Key: plain-api-key")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateTenant(ctx, mockUseCase, logger, &out, input, "json")
		require.NoError(t, err)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, tenantID.String(), decoded["id"])
		assert.Equal(t, "plain-api-key", decoded["api_key"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &tenantMocks.MockTenantUseCase{}
		mockUseCase.On("Create", ctx, input).
			Return(nil, tenantDomain.ErrApplicationNameAlreadyExists)

		var out bytes.Buffer
		err := RunCreateTenant(ctx, mockUseCase, logger, &out, input, "text")

		require.Error(t, err)
		assert.True(t, errors.Is(err, tenantDomain.ErrApplicationNameAlreadyExists))
		assert.Empty(t, out.String())
	})
}
