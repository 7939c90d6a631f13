package http

import (
	"net/http"
	"net/url"
	"strings"

	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
)

// Resolver extracts the authenticated caller from a request.
//
// Implementations adapt whatever upstream authentication the deployment uses
// (an authenticating reverse proxy, mutual TLS, a platform identity API) into
// the provider-agnostic Identity. Resolve returns identityDomain.ErrNoIdentity
// when the request is unauthenticated.
type Resolver interface {
	Resolve(r *http.Request) (*identityDomain.Identity, error)
}

// HeaderResolverConfig names the headers populated by the authenticating proxy.
type HeaderResolverConfig struct {
	UserHeader   string
	SIDHeader    string
	GroupsHeader string
}

// HeaderResolver trusts identity headers set by a fronting authentication proxy.
//
// The groups header holds comma-separated entries of the form "id=name". An
// entry without "=" uses the id as its name. Both parts may be percent-encoded
// so names can carry commas or equals signs.
type HeaderResolver struct {
	config HeaderResolverConfig
}

// NewHeaderResolver creates a resolver reading the configured headers.
func NewHeaderResolver(config HeaderResolverConfig) *HeaderResolver {
	return &HeaderResolver{config: config}
}

// Resolve builds an Identity from the request headers.
func (h *HeaderResolver) Resolve(r *http.Request) (*identityDomain.Identity, error) {
	subject := strings.TrimSpace(r.Header.Get(h.config.UserHeader))
	if subject == "" {
		return nil, identityDomain.ErrNoIdentity
	}

	identity := &identityDomain.Identity{SubjectName: subject}

	if h.config.SIDHeader != "" {
		identity.SecurityID = strings.TrimSpace(r.Header.Get(h.config.SIDHeader))
	}

	if h.config.GroupsHeader != "" {
		for _, value := range r.Header.Values(h.config.GroupsHeader) {
			identity.Groups = append(identity.Groups, parseGroups(value)...)
		}
	}

	return identity, nil
}

// parseGroups splits a groups header value into memberships. Empty entries are skipped.
func parseGroups(value string) []identityDomain.Group {
	var groups []identityDomain.Group
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, name, found := strings.Cut(entry, "=")
		id = unescape(strings.TrimSpace(id))
		if id == "" {
			continue
		}

		name = unescape(strings.TrimSpace(name))
		if !found || name == "" {
			name = id
		}

		groups = append(groups, identityDomain.Group{ID: id, ResolvedName: name})
	}
	return groups
}

func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}
