package app

import (
	"context"
	"fmt"

	identityHTTP "github.com/allisson/tokenbroker/internal/identity/http"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
	tokenHTTP "github.com/allisson/tokenbroker/internal/token/http"
	tokenService "github.com/allisson/tokenbroker/internal/token/service"
	tokenUseCase "github.com/allisson/tokenbroker/internal/token/usecase"
)

// SigningContext returns the signing material loaded from configuration.
// ctx is used to reach the KMS when key material is wrapped.
func (c *Container) SigningContext(ctx context.Context) (*tokenDomain.SigningContext, error) {
	c.signingContextInit.Do(func() {
		signing, err := tokenService.NewKeyManager(c.Logger()).Initialize(ctx, tokenService.KeyConfig{
			UseRSA:            c.config.TokenUseRSA,
			HMACSecret:        c.config.TokenHMACSecretKey,
			RSAPublicKeyPath:  c.config.TokenRSAPublicKeyXML,
			RSAPrivateKeyPath: c.config.TokenRSAPrivateKeyXML,
			KMSKeyURI:         c.config.KMSKeyURI,
		})
		if err != nil {
			c.setInitError("signingContext", fmt.Errorf("failed to initialize signing keys: %w", err))
			return
		}
		c.signingContext = signing
	})
	if err := c.initError("signingContext"); err != nil {
		return nil, err
	}
	return c.signingContext, nil
}

// ClaimsBuilder returns the claim set builder.
func (c *Container) ClaimsBuilder() tokenService.ClaimsBuilder {
	c.claimsBuilderInit.Do(func() {
		c.claimsBuilder = tokenService.NewClaimsBuilder(tokenService.ClaimsConfig{
			Issuer:                 c.config.TokenIssuer,
			ExpiryDays:             c.config.TokenExpiryDays,
			ExpiryMinutes:          c.config.TokenExpiryMinutes,
			IncludeGroupSIDClaims:  c.config.TokenIncludeGroupSIDClaims,
			IncludeGroupRoleClaims: c.config.TokenIncludeGroupRoleClaims,
		})
	})
	return c.claimsBuilder
}

// TokenCodec returns the JWT encoder and validator.
func (c *Container) TokenCodec(ctx context.Context) (tokenService.TokenCodec, error) {
	c.tokenCodecInit.Do(func() {
		signing, err := c.SigningContext(ctx)
		if err != nil {
			c.setInitError("tokenCodec", err)
			return
		}
		c.tokenCodec = tokenService.NewTokenCodec(signing, tokenService.ValidationConfig{
			Issuer:           c.config.TokenIssuer,
			ValidateAudience: c.config.TokenValidateAudience,
			ValidateIssuer:   c.config.TokenValidateIssuer,
			ValidateLifetime: c.config.TokenValidateLifetime,
			ClockSkew:        c.config.TokenClockSkew,
		}, c.Logger())
	})
	if err := c.initError("tokenCodec"); err != nil {
		return nil, err
	}
	return c.tokenCodec, nil
}

// DeliveryFormatter returns the cookie and bearer formatter.
func (c *Container) DeliveryFormatter() tokenService.DeliveryFormatter {
	c.deliveryFormatterInit.Do(func() {
		c.deliveryFormatter = tokenService.NewDeliveryFormatter(tokenService.CookieConfig{
			Name:       c.config.TokenName,
			Domain:     c.config.TokenCookieDomain,
			Path:       c.config.TokenCookiePath,
			ExpiryDays: c.config.TokenCookieExpiryDays,
			Secure:     c.config.TokenCookieSecure,
			SameSite:   c.config.TokenSameSite,
		})
	})
	return c.deliveryFormatter
}

// TokenUseCase returns the token issuance and validation use case.
func (c *Container) TokenUseCase(ctx context.Context) (tokenUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		uc, err := c.initTokenUseCase(ctx)
		if err != nil {
			c.setInitError("tokenUseCase", err)
			return
		}
		c.tokenUseCase = uc
	})
	if err := c.initError("tokenUseCase"); err != nil {
		return nil, err
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the HTTP handler for the token endpoints.
func (c *Container) TokenHandler(ctx context.Context) (*tokenHTTP.TokenHandler, error) {
	c.tokenHandlerInit.Do(func() {
		uc, err := c.TokenUseCase(ctx)
		if err != nil {
			c.setInitError("tokenHandler", fmt.Errorf("failed to get token use case for handler: %w", err))
			return
		}
		c.tokenHandler = tokenHTTP.NewTokenHandler(uc, c.DeliveryFormatter(), c.Logger())
	})
	if err := c.initError("tokenHandler"); err != nil {
		return nil, err
	}
	return c.tokenHandler, nil
}

// IdentityResolver returns the resolver that reads the caller from proxy headers.
func (c *Container) IdentityResolver() identityHTTP.Resolver {
	c.identityResolverInit.Do(func() {
		c.identityResolver = identityHTTP.NewHeaderResolver(identityHTTP.HeaderResolverConfig{
			UserHeader:   c.config.IdentityUserHeader,
			SIDHeader:    c.config.IdentitySIDHeader,
			GroupsHeader: c.config.IdentityGroupsHeader,
		})
	})
	return c.identityResolver
}

func (c *Container) initTokenUseCase(ctx context.Context) (tokenUseCase.TokenUseCase, error) {
	registry, err := c.RegistryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry use case for token use case: %w", err)
	}

	codec, err := c.TokenCodec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for token use case: %w", err)
	}

	baseUseCase := tokenUseCase.NewTokenUseCase(registry, c.ClaimsBuilder(), codec, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return tokenUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
