package service

import (
	"net/http"
	"strings"
	"time"

	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
)

// falseCookieValue marks a browser as unauthenticated. It is never a valid token.
const falseCookieValue = "false"

// CookieConfig holds the global cookie settings.
type CookieConfig struct {
	// Name, Domain and Path are the defaults for tenants that do not override
	// them, and the only values used by the false cookie.
	Name       string
	Domain     string
	Path       string
	ExpiryDays int
	Secure     bool
	SameSite   string
}

type deliveryFormatter struct {
	cfg CookieConfig
}

// NewDeliveryFormatter creates a DeliveryFormatter.
func NewDeliveryFormatter(cfg CookieConfig) DeliveryFormatter {
	return &deliveryFormatter{cfg: cfg}
}

// TokenCookie renders
//
//	<name>=<token>;[Expires=<date>;] Domain=<domain>; SameSite=<s>; Path=<path>;[ Secure;] HttpOnly
//
// using the tenant's cookie name, domain and path.
func (d *deliveryFormatter) TokenCookie(token string, tenant *tenantDomain.Tenant, now time.Time) string {
	name := fallback(tenant.CookieName, d.cfg.Name)
	domain := fallback(tenant.CookieDomain, d.cfg.Domain)
	path := fallback(tenant.CookiePath, d.cfg.Path)

	expires := ""
	if d.cfg.ExpiryDays != 0 {
		expires = "Expires=" + now.UTC().AddDate(0, 0, d.cfg.ExpiryDays).Format(http.TimeFormat) + ";"
	}

	return d.render(name, token, expires, domain, path)
}

// FalseCookie renders the unauthenticated marker cookie with the global
// name, domain and path and no Expires attribute.
func (d *deliveryFormatter) FalseCookie() string {
	return d.render(d.cfg.Name, falseCookieValue, "", d.cfg.Domain, d.cfg.Path)
}

// BearerPayload wraps token for bearer responses.
func (d *deliveryFormatter) BearerPayload(token string) tokenDomain.BearerPayload {
	return tokenDomain.BearerPayload{Token: token}
}

func (d *deliveryFormatter) render(name, value, expires, domain, path string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("=")
	b.WriteString(value)
	b.WriteString(";")
	b.WriteString(expires)
	b.WriteString(" Domain=")
	b.WriteString(domain)
	b.WriteString("; SameSite=")
	b.WriteString(d.cfg.SameSite)
	b.WriteString("; Path=")
	b.WriteString(path)
	b.WriteString(";")
	if d.cfg.Secure {
		b.WriteString(" Secure;")
	}
	b.WriteString(" HttpOnly")
	return b.String()
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
