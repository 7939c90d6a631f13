package usecase

import (
	"context"
	"time"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	"github.com/allisson/tokenbroker/internal/metrics"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// IssueByAPIKey records metrics for issuance by API key.
func (t *tokenUseCaseWithMetrics) IssueByAPIKey(
	ctx context.Context,
	identity *identityDomain.Identity,
	apiKey string,
) (*tokenDomain.IssuedToken, error) {
	start := time.Now()
	issued, err := t.next.IssueByAPIKey(ctx, identity, apiKey)
	t.record(ctx, "issue_by_api_key", start, statusOf(err))
	t.recordIssuance(ctx, issued, "api_key")
	return issued, err
}

// IssueByApplication records metrics for issuance by application name.
func (t *tokenUseCaseWithMetrics) IssueByApplication(
	ctx context.Context,
	identity *identityDomain.Identity,
	applicationName string,
) (*tokenDomain.IssuedToken, error) {
	start := time.Now()
	issued, err := t.next.IssueByApplication(ctx, identity, applicationName)
	t.record(ctx, "issue_by_application", start, statusOf(err))
	t.recordIssuance(ctx, issued, "application")
	return issued, err
}

// Validate records metrics for validation. A rejected token is recorded as "invalid".
func (t *tokenUseCaseWithMetrics) Validate(ctx context.Context, token, audience string) (bool, error) {
	start := time.Now()
	valid, err := t.next.Validate(ctx, token, audience)

	status := statusOf(err)
	if err == nil && !valid {
		status = "invalid"
	}
	t.record(ctx, "validate", start, status)
	return valid, err
}

// Introspect records metrics for introspection.
func (t *tokenUseCaseWithMetrics) Introspect(
	ctx context.Context,
	token string,
) (*tokenDomain.DecodedToken, error) {
	start := time.Now()
	decoded, err := t.next.Introspect(ctx, token)
	t.record(ctx, "introspect", start, statusOf(err))
	return decoded, err
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (t *tokenUseCaseWithMetrics) recordIssuance(ctx context.Context, issued *tokenDomain.IssuedToken, lookup string) {
	if issued == nil || issued.Tenant == nil {
		return
	}
	t.metrics.RecordIssuance(ctx, issued.Tenant.ApplicationName, lookup)
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	t.metrics.RecordOperation(ctx, "token", operation, status)
	t.metrics.RecordDuration(ctx, "token", operation, time.Since(start), status)
}
