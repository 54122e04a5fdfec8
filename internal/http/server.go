// Package http provides the HTTP server, its router and the cross-cutting middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessHTTP "github.com/allisson/rolegate/internal/access/http"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/config"
	"github.com/allisson/rolegate/internal/metrics"
)

// Server represents the API HTTP server.
type Server struct {
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
	sessions accessUseCase.SessionUseCase

	// baseCtx parents every request context. It is cancelled when shutdown begins so
	// that streams and pending route guards let go of their connections.
	baseCtx  context.Context
	cancel   context.CancelFunc
	draining atomic.Bool
}

// NewServer creates a new API server. SetupRouter must be called before Start.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		logger:  logger,
		baseCtx: baseCtx,
		cancel:  cancel,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: visibility streams and route guards hold the response open.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return s.baseCtx },
	}
	return s
}

// SetupRouter builds the gin engine with middleware and every API route.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	sessionHandler *accessHTTP.SessionHandler,
	accessHandler *accessHTTP.AccessHandler,
	sessionUseCase accessUseCase.SessionUseCase,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var limit []gin.HandlerFunc
	if cfg.RateLimitEnabled {
		limit = append(limit, accessHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}

	v1 := router.Group("/v1")
	{
		sessions := v1.Group("/sessions")
		sessions.POST("", append(limit, sessionHandler.CreateHandler)...)
		sessions.GET("", append(limit, sessionHandler.ListHandler)...)

		scoped := sessions.Group("/:id", accessHTTP.SessionMiddleware(sessionUseCase, s.logger))
		scoped.Use(limit...)
		{
			scoped.GET("", sessionHandler.GetHandler)
			scoped.DELETE("", sessionHandler.DeleteHandler)
			scoped.POST("/refresh", sessionHandler.RefreshHandler)
			scoped.GET("/roles", accessHandler.RolesHandler)
			scoped.GET("/visibility", accessHandler.VisibilityHandler)
			scoped.GET("/visibility/stream", accessHandler.StreamVisibilityHandler)
			scoped.GET("/chrome", accessHandler.ChromeHandler)
			scoped.POST("/navigate", accessHandler.NavigateHandler)
		}
	}

	s.router = router
	s.sessions = sessionUseCase
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.draining.Store(true)
	s.cancel()
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server accepts new work.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.draining.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"server": "draining"},
		})
		return
	}

	components := gin.H{"server": "ok"}
	if s.sessions != nil {
		components["open_sessions"] = s.sessions.Count()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
