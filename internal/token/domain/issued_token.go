package domain

import (
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
)

// IssuedToken is a signed token together with the tenant it was scoped to.
type IssuedToken struct {
	Token  string
	Tenant *tenantDomain.Tenant
	Claims *ClaimSet
}
