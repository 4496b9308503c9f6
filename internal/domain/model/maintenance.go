package model

import (
	"encoding/json"
	"time"
)

// MaintenanceResult is the normalized outcome of one invocation of the
// remote maintenance procedure. Transport failures and procedure-reported
// failures look identical here; the distinction lives in logs only. The
// result is returned as data, never persisted by this service.
type MaintenanceResult struct {
	Succeeded    bool            `json:"succeeded"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	Duration     time.Duration   `json:"-"`
}

// DurationMillis returns the elapsed wall-clock time in milliseconds for
// the response envelope.
func (r MaintenanceResult) DurationMillis() int64 {
	return r.Duration.Milliseconds()
}
