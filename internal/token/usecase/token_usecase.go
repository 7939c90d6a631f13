package usecase

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tenantUseCase "github.com/allisson/tokenbroker/internal/tenant/usecase"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
	tokenService "github.com/allisson/tokenbroker/internal/token/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	registry      tenantUseCase.RegistryUseCase
	claimsBuilder tokenService.ClaimsBuilder
	codec         tokenService.TokenCodec
	logger        *slog.Logger
	now           func() time.Time
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	registry tenantUseCase.RegistryUseCase,
	claimsBuilder tokenService.ClaimsBuilder,
	codec tokenService.TokenCodec,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		registry:      registry,
		claimsBuilder: claimsBuilder,
		codec:         codec,
		logger:        logger,
		now:           time.Now,
	}
}

// IssueByAPIKey resolves the tenant by API key and issues a token.
func (t *tokenUseCase) IssueByAPIKey(
	ctx context.Context,
	identity *identityDomain.Identity,
	apiKey string,
) (*tokenDomain.IssuedToken, error) {
	if identity == nil {
		return nil, tokenDomain.ErrUnauthenticated
	}

	tenant, err := t.registry.LookupByKey(ctx, apiKey)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return t.issue(identity, tenant)
}

// IssueByApplication resolves the tenant by application name and issues a token.
func (t *tokenUseCase) IssueByApplication(
	ctx context.Context,
	identity *identityDomain.Identity,
	applicationName string,
) (*tokenDomain.IssuedToken, error) {
	if identity == nil {
		return nil, tokenDomain.ErrUnauthenticated
	}

	tenant, err := t.registry.LookupByName(ctx, applicationName)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return t.issue(identity, tenant)
}

func (t *tokenUseCase) issue(
	identity *identityDomain.Identity,
	tenant *tenantDomain.Tenant,
) (*tokenDomain.IssuedToken, error) {
	claims, err := t.claimsBuilder.Build(identity, tenant, t.now())
	if err != nil {
		return nil, err
	}

	token, err := t.codec.Encode(claims)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("token issued",
		slog.String("tenant", tenant.ApplicationName),
		slog.String("jti", claims.TokenID),
	)

	return &tokenDomain.IssuedToken{
		Token:  token,
		Tenant: tenant,
		Claims: claims,
	}, nil
}

func mapLookupError(err error) error {
	if apperrors.Is(err, tenantDomain.ErrTenantNotFound) {
		return tokenDomain.ErrUnknownTenant
	}
	return err
}

// Validate checks token against audience.
func (t *tokenUseCase) Validate(_ context.Context, token, audience string) (bool, error) {
	return t.codec.Validate(token, audience)
}

// Introspect decodes token without verification.
func (t *tokenUseCase) Introspect(_ context.Context, token string) (*tokenDomain.DecodedToken, error) {
	return t.codec.Introspect(token)
}
