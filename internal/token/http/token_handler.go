// Package http provides HTTP handlers for token issuance, validation and introspection.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/tokenbroker/internal/errors"
	"github.com/allisson/tokenbroker/internal/httputil"
	identityDomain "github.com/allisson/tokenbroker/internal/identity/domain"
	identityHTTP "github.com/allisson/tokenbroker/internal/identity/http"
	tenantDomain "github.com/allisson/tokenbroker/internal/tenant/domain"
	tokenDomain "github.com/allisson/tokenbroker/internal/token/domain"
	"github.com/allisson/tokenbroker/internal/token/http/dto"
	tokenService "github.com/allisson/tokenbroker/internal/token/service"
	tokenUseCase "github.com/allisson/tokenbroker/internal/token/usecase"
	customValidation "github.com/allisson/tokenbroker/internal/validation"
)

// issueFunc issues a token for identity, resolving the tenant from a request parameter.
type issueFunc func(ctx context.Context, identity *identityDomain.Identity) (*tokenDomain.IssuedToken, error)

// TokenHandler handles HTTP requests for token operations.
type TokenHandler struct {
	tokenUseCase tokenUseCase.TokenUseCase
	formatter    tokenService.DeliveryFormatter
	logger       *slog.Logger
	now          func() time.Time
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase tokenUseCase.TokenUseCase,
	formatter tokenService.DeliveryFormatter,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		formatter:    formatter,
		logger:       logger,
		now:          time.Now,
	}
}

// IssueCookieByAPIKeyHandler issues a token cookie for the tenant owning the apiKey query parameter.
// GET /v1/token/auth/apiKey?apiKey=...&redirectURL=...
func (h *TokenHandler) IssueCookieByAPIKeyHandler(c *gin.Context) {
	apiKey := c.Query("apiKey")
	h.issueCookie(c, func(ctx context.Context, identity *identityDomain.Identity) (*tokenDomain.IssuedToken, error) {
		return h.tokenUseCase.IssueByAPIKey(ctx, identity, apiKey)
	})
}

// IssueCookieByApplicationHandler issues a token cookie for the tenant named by the application
// query parameter.
// GET /v1/token/auth/application?application=...&redirectURL=...
func (h *TokenHandler) IssueCookieByApplicationHandler(c *gin.Context) {
	application := c.Query("application")
	h.issueCookie(c, func(ctx context.Context, identity *identityDomain.Identity) (*tokenDomain.IssuedToken, error) {
		return h.tokenUseCase.IssueByApplication(ctx, identity, application)
	})
}

// IssueBearerByAPIKeyHandler returns {"token": "..."} for the tenant owning apiKey.
// GET /v1/token/auth/bearer/apiKey?apiKey=...
func (h *TokenHandler) IssueBearerByAPIKeyHandler(c *gin.Context) {
	apiKey := c.Query("apiKey")
	h.issueBearer(c, func(ctx context.Context, identity *identityDomain.Identity) (*tokenDomain.IssuedToken, error) {
		return h.tokenUseCase.IssueByAPIKey(ctx, identity, apiKey)
	})
}

// IssueBearerByApplicationHandler returns {"token": "..."} for the named tenant.
// GET /v1/token/auth/bearer/application?application=...
func (h *TokenHandler) IssueBearerByApplicationHandler(c *gin.Context) {
	application := c.Query("application")
	h.issueBearer(c, func(ctx context.Context, identity *identityDomain.Identity) (*tokenDomain.IssuedToken, error) {
		return h.tokenUseCase.IssueByApplication(ctx, identity, application)
	})
}

// issueCookie writes the token cookie on success. A missing identity and an unknown
// tenant are answered identically: the "false" cookie plus a redirect when
// redirectURL is present, otherwise an empty 400.
func (h *TokenHandler) issueCookie(c *gin.Context, issue issueFunc) {
	redirectURL := c.Query("redirectURL")

	identity, _ := identityHTTP.GetIdentity(c.Request.Context())
	issued, err := issue(c.Request.Context(), identity)
	if err != nil {
		if !isRejection(err) {
			h.handleIssueError(c, err)
			return
		}
		h.logger.Debug("token issuance rejected", slog.Any("error", err))

		if redirectURL != "" {
			c.Header("Set-Cookie", h.formatter.FalseCookie())
			c.Redirect(http.StatusFound, redirectURL)
			return
		}
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	// gin's SetCookie cannot render the tenant cookie grammar, so the header is written as is.
	c.Header("Set-Cookie", h.formatter.TokenCookie(issued.Token, issued.Tenant, h.now()))

	if redirectURL != "" {
		c.Redirect(http.StatusFound, redirectURL)
		return
	}
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
}

func (h *TokenHandler) issueBearer(c *gin.Context, issue issueFunc) {
	identity, _ := identityHTTP.GetIdentity(c.Request.Context())
	issued, err := issue(c.Request.Context(), identity)
	if err != nil {
		if !isRejection(err) {
			h.handleIssueError(c, err)
			return
		}
		h.logger.Debug("bearer issuance rejected", slog.Any("error", err))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, h.formatter.BearerPayload(issued.Token))
}

// handleIssueError answers issuance failures that are not rejections. A broken
// role pattern on a stored tenant is an operator fault and is reported as a
// generic internal error so the pattern never reaches the caller.
func (h *TokenHandler) handleIssueError(c *gin.Context, err error) {
	if apperrors.Is(err, tenantDomain.ErrInvalidRoleRegex) {
		h.logger.Error("tenant role configuration is invalid", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, httputil.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}
	httputil.HandleErrorGin(c, err, h.logger)
}

// isRejection reports whether err must be answered without revealing whether the
// tenant exists.
func isRejection(err error) bool {
	return apperrors.Is(err, tokenDomain.ErrUnauthenticated) || apperrors.Is(err, tokenDomain.ErrUnknownTenant)
}

// ValidateHandler reports whether a token is valid for an audience.
// POST /v1/token/validate
// Returns 200 with a JSON boolean. Only unexpected faults produce an error status.
func (h *TokenHandler) ValidateHandler(c *gin.Context) {
	var req dto.ValidateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	valid, err := h.tokenUseCase.Validate(c.Request.Context(), req.Token, req.ValidAudience)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, valid)
}

// ReadHandler decodes a token without verifying its signature.
// POST /v1/token/read
func (h *TokenHandler) ReadHandler(c *gin.Context) {
	var req dto.ReadTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	decoded, err := h.tokenUseCase.Introspect(c.Request.Context(), req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, decoded)
}
