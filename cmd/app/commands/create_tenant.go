package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantUseCase "github.com/allisson/tokenbroker/internal/tenant/usecase"
)

// RunCreateTenant registers a subscriber application and prints its API key.
// The plain key is shown only once; the registry keeps its hash.
//
// Requirements: Database must be migrated and accessible.
func RunCreateTenant(
	ctx context.Context,
	tenantUseCase tenantUseCase.TenantUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input *tenantDomain.CreateTenantInput,
	format string,
) error {
	logger.Info("creating new tenant", slog.String("application_name", input.ApplicationName))

	output, err := tenantUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, output); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "\nTenant created successfully!")
		_, _ = fmt.Fprintf(writer, "Tenant ID: %s\n", output.ID.String())
		_, _ = fmt.Fprintf(writer, "Application: %s\n", input.ApplicationName)
		_, _ = fmt.Fprintf(writer, "API Key: %s\n", output.APIKey)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The API key is shown only once. Store it securely.")
	}

	logger.Info("tenant created successfully",
		slog.String("tenant_id", output.ID.String()),
		slog.String("application_name", input.ApplicationName),
		slog.Bool("is_active", input.IsActive),
	)

	return nil
}
