// Package scheduler provides the in-process cron runner that fires the
// daily maintenance procedure on a schedule.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dentara/clinic-ops/internal/domain/auth"
	"github.com/dentara/clinic-ops/internal/domain/model"
)

// MaintenanceInvoker is the slice of the maintenance service the runner needs.
type MaintenanceInvoker interface {
	Run(ctx context.Context, actor auth.Actor) (*model.MaintenanceResult, error)
}

// Runner fires the maintenance procedure on a cron schedule. Each firing
// runs as the system actor; failures are logged and the schedule keeps going.
type Runner struct {
	invoker  MaintenanceInvoker
	schedule cron.Schedule
	spec     string
	timeout  time.Duration
	logger   *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Invoker MaintenanceInvoker
	// Schedule is a standard five-field cron expression, e.g. "0 3 * * *".
	Schedule string
	// Timeout bounds a single maintenance run. Zero means one hour.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Invoker == nil {
		return nil, errors.New("maintenance invoker is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Hour
	}

	schedule, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, err
	}

	return &Runner{
		invoker:  opts.Invoker,
		schedule: schedule,
		spec:     opts.Schedule,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
	}, nil
}

// Run blocks until the context is cancelled, firing maintenance whenever the
// schedule is due.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting maintenance scheduler", "schedule", r.spec)

	c := cron.New()
	c.Schedule(r.schedule, cron.FuncJob(func() {
		r.fire(ctx)
	}))
	c.Start()

	<-ctx.Done()
	r.logger.Info("maintenance scheduler stopping", "reason", ctx.Err())

	// Wait for any in-flight run to finish before returning.
	<-c.Stop().Done()

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (r *Runner) fire(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.invoker.Run(runCtx, auth.System())
	if err != nil {
		r.logger.ErrorContext(runCtx, "scheduled maintenance run failed", "error", err)
		return
	}
	r.logger.InfoContext(runCtx, "scheduled maintenance run finished",
		"succeeded", result.Succeeded,
		"duration_ms", result.DurationMillis())
}
