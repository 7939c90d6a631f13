package domain

import (
	"github.com/allisson/tokenbroker/internal/errors"
)

// ErrNoIdentity indicates the request carries no authenticated caller.
var ErrNoIdentity = errors.Wrap(errors.ErrUnauthorized, "no authenticated identity")
