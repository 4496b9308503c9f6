package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/dentara/clinic-ops/internal/data"
	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/observability/statsd"
)

// MaintenanceProcedure is the single opaque call into the database-owned
// maintenance routine.
type MaintenanceProcedure interface {
	Run(ctx context.Context) (json.RawMessage, error)
}

// MaintenanceService invokes the privileged maintenance procedure once per
// call and normalizes the outcome. Transport failures and failures the
// procedure reports itself both come back as succeeded=false; the
// distinction lives in logs.
type MaintenanceService struct {
	procedure    MaintenanceProcedure
	summaryExpr  jmespath.JMESPath
	timeProvider data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// MaintenanceServiceOptions configures the maintenance service.
type MaintenanceServiceOptions struct {
	Procedure MaintenanceProcedure
	// SummaryPath is an optional JMESPath expression evaluated against the
	// procedure payload. The extracted value is logged and gauged only; it
	// never changes what callers receive.
	SummaryPath  string
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(opts MaintenanceServiceOptions) (*MaintenanceService, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var summaryExpr jmespath.JMESPath
	if opts.SummaryPath != "" {
		compiled, err := jmespath.Compile(opts.SummaryPath)
		if err != nil {
			return nil, fmt.Errorf("compile maintenance summary path: %w", err)
		}
		summaryExpr = compiled
	}

	return &MaintenanceService{
		procedure:    opts.Procedure,
		summaryExpr:  summaryExpr,
		timeProvider: tp,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Run invokes the procedure once, with no retries. The returned result is
// always usable; the error mirrors result.Succeeded=false for callers that
// need to branch on failure.
func (s *MaintenanceService) Run(ctx context.Context, actor domainauth.Actor) (*model.MaintenanceResult, error) {
	start := s.timeProvider.Now().UTC()
	payload, err := s.procedure.Run(ctx)
	elapsed := time.Since(start)

	result := &model.MaintenanceResult{
		StartedAt: start,
		Duration:  elapsed,
	}

	if err != nil {
		result.ErrorMessage = "maintenance procedure failed"
		s.logger.ErrorContext(ctx, "maintenance procedure call failed",
			"actor", actor.ID,
			"duration_ms", result.DurationMillis(),
			"error", err)
		s.emitRunMetrics(result, actor)
		return result, apperrors.Wrap(err, apperrors.ErrCodeInternal, "maintenance procedure failed")
	}

	result.Payload = payload
	if reported := procedureError(payload); reported != "" {
		result.ErrorMessage = reported
		s.logger.ErrorContext(ctx, "maintenance procedure reported failure",
			"actor", actor.ID,
			"duration_ms", result.DurationMillis(),
			"error", reported)
		s.emitRunMetrics(result, actor)
		return result, apperrors.Internal("maintenance procedure reported failure")
	}

	result.Succeeded = true
	s.logger.InfoContext(ctx, "maintenance procedure finished",
		"actor", actor.ID,
		"duration_ms", result.DurationMillis())
	s.logSummary(ctx, payload)
	s.emitRunMetrics(result, actor)

	return result, nil
}

// procedureError extracts a failure message the procedure reported in its
// payload. The payload is otherwise opaque; the only shape this service
// understands is a top-level object with a non-empty "error" string.
func procedureError(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ""
	}
	return envelope.Error
}

func (s *MaintenanceService) logSummary(ctx context.Context, payload json.RawMessage) {
	if s.summaryExpr == nil || len(payload) == 0 {
		return
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		s.logger.DebugContext(ctx, "maintenance summary skipped: payload not valid JSON", "error", err)
		return
	}

	value, err := s.summaryExpr.Search(doc)
	if err != nil {
		s.logger.DebugContext(ctx, "maintenance summary extraction failed", "error", err)
		return
	}

	s.logger.InfoContext(ctx, "maintenance summary", "value", value)
	if n, ok := value.(float64); ok && s.metrics != nil {
		s.metrics.Gauge("maintenance.summary", n, nil)
	}
}

func (s *MaintenanceService) emitRunMetrics(result *model.MaintenanceResult, actor domainauth.Actor) {
	if s.metrics == nil {
		return
	}

	outcome := "success"
	if !result.Succeeded {
		outcome = "error"
	}
	trigger := "manual"
	if actor.IsSystem() {
		trigger = "schedule"
	}
	tags := map[string]string{"result": outcome, "trigger": trigger}

	s.metrics.Count("maintenance.run", 1, tags)
	s.metrics.Timing("maintenance.duration", result.Duration, tags)
}
