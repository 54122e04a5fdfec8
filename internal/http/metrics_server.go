package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/rolegate/internal/metrics"
)

// MetricsServer serves the Prometheus scrape endpoint on its own port, away from the
// session API and its rate limits.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer creates a server exposing GET /metrics and GET /health.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(scrapeLoggerMiddleware(logger))

	router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the router, for tests.
func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "shutting down metrics server")
	return s.server.Shutdown(ctx)
}

// scrapeLoggerMiddleware logs successful scrapes at debug; anything else at warn.
func scrapeLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "metrics request",
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
