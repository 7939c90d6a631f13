// Package domain defines the tenant model: a subscriber application with its own
// audience, cookie delivery policy and role extraction rules.
package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Tenant is a registered subscriber application.
//
// Only the SHA-256 hash of the API key is stored. CookieName, CookieDomain and
// CookiePath are filled from the global token settings when created without them.
type Tenant struct {
	ID              uuid.UUID
	APIKeyHash      string
	ApplicationName string
	Audience        string
	CookieName      string
	CookieDomain    string
	CookiePath      string
	RoleRegexes     []string // ordered; first match wins per group
	IsActive        bool
	CreatedAt       time.Time
}

// CookieDefaults holds the global cookie settings applied to tenants that do not
// override them.
type CookieDefaults struct {
	Name   string
	Domain string
	Path   string
}

// ApplyCookieDefaults fills empty cookie fields from the global defaults.
func (t *Tenant) ApplyCookieDefaults(defaults CookieDefaults) {
	if t.CookieName == "" {
		t.CookieName = defaults.Name
	}
	if t.CookieDomain == "" {
		t.CookieDomain = defaults.Domain
	}
	if t.CookiePath == "" {
		t.CookiePath = defaults.Path
	}
}

// CompileRoleRegexes compiles the role patterns in order.
// Returns ErrInvalidRoleRegex wrapping the first pattern that fails to compile.
func (t *Tenant) CompileRoleRegexes() ([]*regexp.Regexp, error) {
	return CompileRoleRegexes(t.RoleRegexes)
}

// CompileRoleRegexes compiles role patterns in order.
func CompileRoleRegexes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, wrapInvalidRoleRegex(pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// CreateTenantInput contains the parameters for registering a tenant.
type CreateTenantInput struct {
	ApplicationName string
	Audience        string
	CookieName      string
	CookieDomain    string
	CookiePath      string
	RoleRegexes     []string
	IsActive        bool
}

// CreateTenantOutput is returned once on creation. APIKey is the only copy of the
// plain key; it cannot be recovered later.
type CreateTenantOutput struct {
	ID     uuid.UUID `json:"id"`
	APIKey string    `json:"api_key"` //nolint:gosec // returned once to the operator
}
