package domain

import (
	"time"
)

// Claim names written into issued tokens.
const (
	ClaimSubject    = "sub"
	ClaimUniqueName = "unique_name"
	ClaimIssuer     = "iss"
	ClaimAudience   = "aud"
	ClaimIssuedAt   = "iat"
	ClaimNotBefore  = "nbf"
	ClaimExpiresAt  = "exp"
	ClaimTokenID    = "jti"
	ClaimSID        = "sid"
	ClaimRole       = "role"
	// ClaimGroupSID is the claim type URI used for raw group identifiers.
	ClaimGroupSID = "http://schemas.microsoft.com/ws/2008/06/identity/claims/groupsid"
)

// ClaimSet is the payload of an issued token. Times are Unix seconds.
// NotBefore <= IssuedAt <= ExpiresAt always holds for built claim sets.
type ClaimSet struct {
	Subject    string
	Issuer     string
	Audience   string
	IssuedAt   int64
	NotBefore  int64
	ExpiresAt  int64
	TokenID    string
	SecurityID string
	GroupIDs   []string
	Roles      []string
}

// Map renders the claim set as JWT payload claims.
//
// unique_name repeats the subject. sid, groupsid and role are omitted when
// empty. Multi-valued claims are a plain string when they hold exactly one value
// and an array otherwise.
func (c *ClaimSet) Map() map[string]any {
	claims := map[string]any{
		ClaimSubject:    c.Subject,
		ClaimUniqueName: c.Subject,
		ClaimIssuer:     c.Issuer,
		ClaimAudience:   c.Audience,
		ClaimIssuedAt:   c.IssuedAt,
		ClaimNotBefore:  c.NotBefore,
		ClaimExpiresAt:  c.ExpiresAt,
		ClaimTokenID:    c.TokenID,
	}
	if c.SecurityID != "" {
		claims[ClaimSID] = c.SecurityID
	}
	if v, ok := multiValued(c.GroupIDs); ok {
		claims[ClaimGroupSID] = v
	}
	if v, ok := multiValued(c.Roles); ok {
		claims[ClaimRole] = v
	}
	return claims
}

func multiValued(values []string) (any, bool) {
	switch len(values) {
	case 0:
		return nil, false
	case 1:
		return values[0], true
	default:
		return append([]string(nil), values...), true
	}
}

// DecodedToken is the unverified view of a token returned by introspection.
// ValidFrom and ValidTo are nil when the token carries no nbf or exp.
type DecodedToken struct {
	ID        string         `json:"id"`
	Header    map[string]any `json:"header"`
	Payload   map[string]any `json:"payload"`
	ValidFrom *time.Time     `json:"validFrom"`
	ValidTo   *time.Time     `json:"validTo"`
}

// BearerPayload is the JSON body returned by bearer issuance.
type BearerPayload struct {
	Token string `json:"token"`
}
