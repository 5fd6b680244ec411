package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minbak/minbak-web/config"
	"github.com/minbak/minbak-web/internal/adapters/reaper"
)

// BackgroundService is a loop that runs next to the HTTP server until its context ends.
type BackgroundService struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunConfig contains everything RunServicesWithShutdown supervises.
type RunConfig struct {
	Server          *http.Server
	ShutdownTimeout time.Duration
	Background      []BackgroundService
	Logger          *slog.Logger
}

// BuildBackgroundServices returns the enabled background loops.
func BuildBackgroundServices(cfg *config.AppConfig, db *sql.DB, logger *slog.Logger) ([]BackgroundService, error) {
	if cfg == nil || !cfg.Reaper.Enabled {
		return nil, nil
	}
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:     db,
		Config: cfg.Reaper,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create reaper runner: %w", err)
	}
	return []BackgroundService{{Name: "reaper", Run: runner.Run}}, nil
}

// RunServicesWithShutdown serves HTTP and runs the background loops until SIGINT/SIGTERM,
// ctx cancellation or the first failure, then shuts the server down gracefully.
func RunServicesWithShutdown(ctx context.Context, cfg RunConfig) error {
	if cfg.Server == nil {
		return errors.New("http server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", cfg.Server.Addr)
		if err := cfg.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	for _, svc := range cfg.Background {
		g.Go(func() error {
			if err := svc.Run(gctx); err != nil {
				return fmt.Errorf("%s: %w", svc.Name, err)
			}
			logger.Info(svc.Name + " stopped")
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
