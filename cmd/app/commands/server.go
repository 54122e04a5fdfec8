package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/rolegate/internal/app"
	"github.com/allisson/rolegate/internal/config"
)

// shutdownTimeout bounds how long open streams and pending guards get to drain.
const shutdownTimeout = 15 * time.Second

// RunServer starts the API server and, when enabled, the metrics server.
// Blocks until SIGINT/SIGTERM or a fatal server error. Either way the container is shut
// down, which drains the API server, closes every session and stops the metrics server.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		closeContainer(container, logger)
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		closeContainer(container, logger)
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := container.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
