package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantUseCase "github.com/allisson/tokenbroker/internal/tenant/usecase"
)

// tenantView is the printable form of a tenant. The API key hash is left out.
type tenantView struct {
	ID              string   `json:"id"`
	ApplicationName string   `json:"application_name"`
	Audience        string   `json:"audience"`
	CookieName      string   `json:"cookie_name"`
	CookieDomain    string   `json:"cookie_domain"`
	CookiePath      string   `json:"cookie_path"`
	RoleRegexes     []string `json:"role_regexes"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
}

func newTenantView(tenant *tenantDomain.Tenant) tenantView {
	roleRegexes := tenant.RoleRegexes
	if roleRegexes == nil {
		roleRegexes = []string{}
	}
	return tenantView{
		ID:              tenant.ID.String(),
		ApplicationName: tenant.ApplicationName,
		Audience:        tenant.Audience,
		CookieName:      tenant.CookieName,
		CookieDomain:    tenant.CookieDomain,
		CookiePath:      tenant.CookiePath,
		RoleRegexes:     roleRegexes,
		IsActive:        tenant.IsActive,
		CreatedAt:       tenant.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RunListTenants prints one page of registered tenants, newest first.
func RunListTenants(
	ctx context.Context,
	tenantUseCase tenantUseCase.TenantUseCase,
	writer io.Writer,
	offset, limit int,
	format string,
) error {
	if offset < 0 {
		return fmt.Errorf("offset must be zero or positive")
	}
	if limit < 1 || limit > 1000 {
		return fmt.Errorf("limit must be between 1 and 1000")
	}

	tenants, err := tenantUseCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list tenants: %w", err)
	}

	views := make([]tenantView, 0, len(tenants))
	for _, tenant := range tenants {
		views = append(views, newTenantView(tenant))
	}

	if format == "json" {
		return writeJSON(writer, views)
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(writer, "No tenants found.")
		return nil
	}

	for _, view := range views {
		status := "active"
		if !view.IsActive {
			status = "inactive"
		}
		_, _ = fmt.Fprintf(writer, "%s  %s  %s  %s\n", view.ID, view.ApplicationName, view.Audience, status)
		if len(view.RoleRegexes) > 0 {
			_, _ = fmt.Fprintf(writer, "    roles: %s\n", strings.Join(view.RoleRegexes, " | "))
		}
	}
	return nil
}
