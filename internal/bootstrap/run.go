package bootstrap

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dentara/clinic-ops/config"
	"github.com/dentara/clinic-ops/internal/adapters/scheduler"
)

// RunConfig holds everything needed to run the enabled service modes.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown runs the enabled service modes until a shutdown
// signal arrives, then stops them gracefully.
func RunServicesWithShutdown(cfg *RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Config.IsHTTPServerEnabled() {
		server := StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(context.Background(), server, logger)
		})
	}

	if cfg.Config.IsSchedulerEnabled() {
		runner, err := scheduler.NewRunner(scheduler.RunnerOptions{
			Invoker:  cfg.Services.Maintenance,
			Schedule: cfg.Config.Maintenance.Schedule,
			Timeout:  time.Hour,
			Logger:   logger,
		})
		if err != nil {
			stop()
			return err
		}
		g.Go(func() error {
			return runner.Run(gctx)
		})
	}

	logger.Info("services started", "modes", GetEnabledServices(cfg.Config))
	err := g.Wait()

	if metrics := cfg.Services.Metrics; metrics != nil {
		if closeErr := metrics.Close(); closeErr != nil {
			logger.Error("close statsd client failed", "error", closeErr)
		}
	}

	return err
}
