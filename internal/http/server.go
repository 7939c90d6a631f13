// Package http provides the public HTTP server of the broker and its metrics server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/tokenbroker/internal/config"
	identityHTTP "github.com/allisson/tokenbroker/internal/identity/http"
	"github.com/allisson/tokenbroker/internal/metrics"
	tokenHTTP "github.com/allisson/tokenbroker/internal/token/http"
)

const readinessCheckTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Server is the public HTTP server.
type Server struct {
	server       *http.Server
	router       *gin.Engine
	logger       *slog.Logger
	checks       map[string]ReadinessCheck
	shuttingDown atomic.Bool
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		checks: make(map[string]ReadinessCheck),
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// AddReadinessCheck registers a dependency probed by /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter builds the gin engine:
//
//	GET  /health
//	GET  /ready
//	GET  /v1/token/auth/apiKey
//	GET  /v1/token/auth/application
//	GET  /v1/token/auth/bearer/apiKey
//	GET  /v1/token/auth/bearer/application
//	POST /v1/token/validate
//	POST /v1/token/read
//
// ctx bounds background work started by middleware (the rate limiter sweep).
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	tokenHandler *tokenHTTP.TokenHandler,
	identityResolver identityHTTP.Resolver,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health",
			"/ready",
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	token := router.Group("/v1/token")
	{
		auth := token.Group("/auth")
		if cfg.RateLimitTokenEnabled {
			auth.Use(tokenHTTP.RateLimitMiddleware(
				ctx,
				cfg.RateLimitTokenRequestsPerSec,
				cfg.RateLimitTokenBurst,
				s.logger,
			))
		}
		auth.Use(identityHTTP.IdentityMiddleware(identityResolver, s.logger))

		auth.GET("/apiKey", tokenHandler.IssueCookieByAPIKeyHandler)
		auth.GET("/application", tokenHandler.IssueCookieByApplicationHandler)
		auth.GET("/bearer/apiKey", tokenHandler.IssueBearerByAPIKeyHandler)
		auth.GET("/bearer/application", tokenHandler.IssueBearerByApplicationHandler)

		token.POST("/validate", tokenHandler.ValidateHandler)
		token.POST("/read", tokenHandler.ReadHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler runs every registered check and reports each component.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessCheckTimeout)
	defer cancel()

	ready := true
	components := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
