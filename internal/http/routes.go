package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth        AuthGate
	Maintenance MaintenanceInvoker
	Broadcast   Broadcaster
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP router. The two maintenance
// routes share a path but not a trust path: GET carries the scheduler's
// shared secret, POST an administrator bearer token.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	maintenanceHandlers := &MaintenanceHandlers{Svc: services.Maintenance, Logger: logger}
	notificationHandlers := &NotificationHandlers{Svc: services.Broadcast, Logger: logger}

	mux.Handle("GET /api/maintenance/run",
		RequireCronSecret(services.Auth)(http.HandlerFunc(maintenanceHandlers.RunScheduled)))
	mux.Handle("POST /api/maintenance/run",
		RequireAdmin(services.Auth)(http.HandlerFunc(maintenanceHandlers.RunManual)))
	mux.Handle("POST /api/notifications/broadcast",
		RequireAdmin(services.Auth)(http.HandlerFunc(notificationHandlers.Broadcast)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return Chain(mux, RequestID(), Logging(logger), Recover(logger))
}
