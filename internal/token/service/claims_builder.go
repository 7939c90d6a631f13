package service

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// ClaimsConfig holds the process-wide claim settings.
type ClaimsConfig struct {
	Issuer string
	// ExpiryMinutes takes precedence over ExpiryDays when positive.
	ExpiryDays             int
	ExpiryMinutes          int
	IncludeGroupSIDClaims  bool
	IncludeGroupRoleClaims bool
}

type claimsBuilder struct {
	cfg     ClaimsConfig
	tokenID func() (string, error)
}

// NewClaimsBuilder creates a ClaimsBuilder.
func NewClaimsBuilder(cfg ClaimsConfig) ClaimsBuilder {
	return &claimsBuilder{
		cfg:     cfg,
		tokenID: newTokenID,
	}
}

// newTokenID returns a random 128-bit identifier as 32 hex characters.
func newTokenID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}

// Build derives the claim set for identity scoped to tenant.
func (b *claimsBuilder) Build(
	identity *identityDomain.Identity,
	tenant *tenantDomain.Tenant,
	now time.Time,
) (*tokenDomain.ClaimSet, error) {
	if identity == nil {
		return nil, tokenDomain.ErrUnauthenticated
	}
	if tenant == nil {
		return nil, tokenDomain.ErrUnknownTenant
	}

	tokenID, err := b.tokenID()
	if err != nil {
		return nil, err
	}

	issuedAt := now.Unix()
	claims := &tokenDomain.ClaimSet{
		Subject:    identity.SubjectName,
		Issuer:     b.cfg.Issuer,
		Audience:   tenant.Audience,
		IssuedAt:   issuedAt,
		NotBefore:  issuedAt,
		ExpiresAt:  b.expiresAt(now).Unix(),
		TokenID:    tokenID,
		SecurityID: identity.SecurityID,
	}

	if b.cfg.IncludeGroupSIDClaims {
		claims.GroupIDs = identity.GroupIDs()
	}

	if b.cfg.IncludeGroupRoleClaims {
		roles, err := matchRoles(identity.Groups, tenant)
		if err != nil {
			return nil, err
		}
		claims.Roles = roles
	}

	return claims, nil
}

func (b *claimsBuilder) expiresAt(now time.Time) time.Time {
	if b.cfg.ExpiryMinutes > 0 {
		return now.Add(time.Duration(b.cfg.ExpiryMinutes) * time.Minute)
	}
	return now.AddDate(0, 0, b.cfg.ExpiryDays)
}

// matchRoles emits each group's resolved name at most once, when any of the
// tenant patterns matches it. Patterns are tried in order; the first match wins.
func matchRoles(groups []identityDomain.Group, tenant *tenantDomain.Tenant) ([]string, error) {
	if len(tenant.RoleRegexes) == 0 {
		return nil, nil
	}

	patterns, err := tenant.CompileRoleRegexes()
	if err != nil {
		return nil, err
	}

	var roles []string
	seen := make(map[string]struct{}, len(groups))
	for _, group := range groups {
		name := group.ResolvedName
		if name == "" {
			continue
		}
		for _, pattern := range patterns {
			if !pattern.MatchString(name) {
				continue
			}
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				roles = append(roles, name)
			}
			break
		}
	}
	return roles, nil
}
