package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// ValidationConfig holds the process-wide validation settings.
type ValidationConfig struct {
	Issuer           string
	ValidateAudience bool
	ValidateIssuer   bool
	ValidateLifetime bool
	// ClockSkew widens the [nbf, exp] window on both ends.
	ClockSkew time.Duration
}

type tokenCodec struct {
	signing *tokenDomain.SigningContext
	cfg     ValidationConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewTokenCodec creates a TokenCodec bound to signing.
func NewTokenCodec(signing *tokenDomain.SigningContext, cfg ValidationConfig, logger *slog.Logger) TokenCodec {
	return &tokenCodec{
		signing: signing,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *tokenCodec) signingMethod() jwt.SigningMethod {
	if c.signing.Mode() == tokenDomain.ModeRSA {
		return jwt.SigningMethodRS256
	}
	return jwt.SigningMethodHS256
}

// CanIssue reports whether the signing context holds a signing key.
func (c *tokenCodec) CanIssue() bool {
	return c.signing.CanIssue()
}

// Encode signs claims with the context's algorithm.
func (c *tokenCodec) Encode(claims *tokenDomain.ClaimSet) (string, error) {
	if !c.signing.CanIssue() {
		return "", tokenDomain.ErrIssuanceDisabled
	}

	token := jwt.NewWithClaims(c.signingMethod(), jwt.MapClaims(claims.Map()))
	signed, err := token.SignedString(c.signing.SigningKey())
	if err != nil {
		c.logger.Error("failed to sign token", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", tokenDomain.ErrUnexpectedCryptoFault, err)
	}
	return signed, nil
}

// Validate verifies the signature and, per configuration, audience, issuer and lifetime.
func (c *tokenCodec) Validate(token, audience string) (bool, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signing.Algorithm()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.signing.VerificationKey(), nil
	})
	if err != nil {
		if isCryptoFault(err) {
			c.logger.Error("unexpected fault validating token", slog.Any("error", err))
			return false, fmt.Errorf("%w: %v", tokenDomain.ErrUnexpectedCryptoFault, err)
		}
		return false, nil
	}

	if c.cfg.ValidateAudience && !audienceMatches(claims, audience) {
		return false, nil
	}

	if c.cfg.ValidateIssuer {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != c.cfg.Issuer {
			return false, nil
		}
	}

	if c.cfg.ValidateLifetime && !c.withinLifetime(claims) {
		return false, nil
	}

	return true, nil
}

// isCryptoFault separates faults in the signing setup from verdicts on the token.
func isCryptoFault(err error) bool {
	return errors.Is(err, jwt.ErrInvalidKeyType) ||
		errors.Is(err, jwt.ErrHashUnavailable) ||
		errors.Is(err, tokenDomain.ErrUnexpectedCryptoFault)
}

func audienceMatches(claims jwt.MapClaims, audience string) bool {
	if audience == "" {
		return false
	}
	audiences, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, aud := range audiences {
		if aud == audience {
			return true
		}
	}
	return false
}

func (c *tokenCodec) withinLifetime(claims jwt.MapClaims) bool {
	now := c.now()

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	if now.After(exp.Add(c.cfg.ClockSkew)) {
		return false
	}

	nbf, err := claims.GetNotBefore()
	if err != nil {
		return false
	}
	if nbf != nil && now.Before(nbf.Add(-c.cfg.ClockSkew)) {
		return false
	}

	return true
}

// Introspect decodes token without verifying its signature.
func (c *tokenCodec) Introspect(token string) (*tokenDomain.DecodedToken, error) {
	claims := jwt.MapClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tokenDomain.ErrMalformedToken, err)
	}

	decoded := &tokenDomain.DecodedToken{
		Header:  parsed.Header,
		Payload: claims,
	}
	if id, ok := claims[tokenDomain.ClaimTokenID].(string); ok {
		decoded.ID = id
	}
	if nbf, err := claims.GetNotBefore(); err == nil && nbf != nil {
		validFrom := nbf.UTC()
		decoded.ValidFrom = &validFrom
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		validTo := exp.UTC()
		decoded.ValidTo = &validTo
	}

	return decoded, nil
}
