package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
)

// IdentityMiddleware resolves the caller and stores it in the request context.
//
// It never aborts: an unauthenticated request continues without an identity so
// issuance handlers can answer with the "false" cookie or a client error.
// Handlers read the caller with GetIdentity.
func IdentityMiddleware(resolver Resolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request)
		if err != nil {
			if !apperrors.Is(err, identityDomain.ErrNoIdentity) {
				logger.Warn("identity resolution failed", slog.Any("error", err))
			} else {
				logger.Debug("request has no authenticated identity")
			}
			c.Next()
			return
		}

		logger.Debug("identity resolved",
			slog.String("subject", identity.SubjectName),
			slog.Int("group_count", len(identity.Groups)))

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}
