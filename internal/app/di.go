// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/rolegate/internal/access/domain"
	accessHTTP "github.com/allisson/rolegate/internal/access/http"
	"github.com/allisson/rolegate/internal/access/service"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/config"
	"github.com/allisson/rolegate/internal/http"
	"github.com/allisson/rolegate/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Access engine
	policy            *domain.Policy
	roleSource        accessUseCase.RoleSource
	visibility        service.VisibilityResolver
	headerSuppression service.HeaderSuppressionResolver
	navigator         *accessUseCase.Navigator

	// Use Cases
	sessionUseCase accessUseCase.SessionUseCase
	accessUseCase  accessUseCase.AccessUseCase

	// Handlers
	sessionHandler *accessHTTP.SessionHandler
	accessHandler  *accessHTTP.AccessHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	policyInit            sync.Once
	roleSourceInit        sync.Once
	visibilityInit        sync.Once
	headerSuppressionInit sync.Once
	navigatorInit         sync.Once
	sessionUseCaseInit    sync.Once
	accessUseCaseInit     sync.Once
	sessionHandlerInit    sync.Once
	accessHandlerInit     sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry provider backing /metrics.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the server exposing /metrics.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Stop accepting requests first; in-flight streams and guards are released.
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.sessionUseCase != nil {
		c.sessionUseCase.Shutdown(ctx)
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLogLevel(c.config.LogLevel),
	})
	return slog.New(handler)
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initMetricsProvider creates the metrics provider if metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and wires every route.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}

	sessionHandler, err := c.SessionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get session handler for http server: %w", err)
	}

	accessHandler, err := c.AccessHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get access handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(ctx, c.config, sessionHandler, accessHandler, sessionUseCase, provider)

	return server, nil
}

// initMetricsServer creates the metrics server if metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
