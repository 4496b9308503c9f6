package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// errMissingPrincipal signals a handler mounted without its auth middleware.
var errMissingPrincipal = apperrors.Internal("no authenticated principal on request")

// MaintenanceInvoker is the slice of the maintenance service the handlers need.
type MaintenanceInvoker interface {
	Run(ctx context.Context, actor domainauth.Actor) (*model.MaintenanceResult, error)
}

// MaintenanceHandlers serves the maintenance trigger endpoints.
type MaintenanceHandlers struct {
	Svc    MaintenanceInvoker
	Logger *slog.Logger
}

// scheduledRunResponse is the envelope for the scheduled-trigger path.
type scheduledRunResponse struct {
	Success    bool                     `json:"success"`
	Data       *model.MaintenanceResult `json:"data"`
	ExecutedAt time.Time                `json:"executed_at"`
	DurationMS int64                    `json:"duration_ms"`
}

// manualRunResponse is the envelope for the administrative path.
type manualRunResponse struct {
	Success     bool                     `json:"success"`
	Data        *model.MaintenanceResult `json:"data"`
	TriggeredBy string                   `json:"triggered_by"`
	ExecutedAt  time.Time                `json:"executed_at"`
}

// RunScheduled handles the platform scheduler's trigger. The run's outcome
// is always returned as data: a failed procedure is a 200 whose payload says
// so, since the scheduler only needs to know the trigger was accepted.
func (h *MaintenanceHandlers) RunScheduled(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.Run(r.Context(), domainauth.System())
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "scheduled maintenance trigger failed", "error", err)
	}

	WriteJSON(w, http.StatusOK, scheduledRunResponse{
		Success:    true,
		Data:       result,
		ExecutedAt: result.StartedAt,
		DurationMS: result.DurationMillis(),
	})
}

// RunManual handles an administrator's on-demand trigger. Unlike the
// scheduled path, a failed run is the administrator's problem to see: it
// surfaces as a 500.
func (h *MaintenanceHandlers) RunManual(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		// Route misconfiguration: this handler is only mounted behind RequireAdmin.
		WriteAppError(w, errMissingPrincipal)
		return
	}

	result, err := h.Svc.Run(r.Context(), domainauth.User(principal))
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "manual maintenance trigger failed",
			"user_id", principal.ID, "error", err)
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, manualRunResponse{
		Success:     true,
		Data:        result,
		TriggeredBy: principal.ID,
		ExecutedAt:  result.StartedAt,
	})
}
