package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/gegcuk/kidsgpt-backend/internal/app"
	"github.com/gegcuk/kidsgpt-backend/internal/config"
)

// shutdownTimeout bounds how long in-flight chat requests get to finish.
const shutdownTimeout = 30 * time.Second

// RunServer serves the API, the metrics endpoint (when enabled) and the revocation
// purge worker until SIGINT, SIGTERM or the first fatal error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	app.Version = version
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	// Build everything up front so configuration errors surface before listening.
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	purgeWorker, err := container.PurgeWorker()
	if err != nil {
		return fmt.Errorf("failed to initialize purge worker: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting kidsgpt backend", slog.String("version", version))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		if err := purgeWorker.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("purge worker: %w", err)
		}
		return nil
	})

	// Waits for a signal or a failed listener, then drains both servers.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
