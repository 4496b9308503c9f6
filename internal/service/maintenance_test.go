package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/clinic-ops/internal/data"
	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

type mockProcedure struct {
	runFunc func(ctx context.Context) (json.RawMessage, error)
	calls   int
}

func (m *mockProcedure) Run(ctx context.Context) (json.RawMessage, error) {
	m.calls++
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func TestMaintenanceService_RunSucceeds(t *testing.T) {
	started := time.Date(2026, 8, 29, 3, 0, 0, 0, time.UTC)
	proc := &mockProcedure{
		runFunc: func(_ context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"expired_sessions":12,"archived_orders":3}`), nil
		},
	}
	svc, err := NewMaintenanceService(MaintenanceServiceOptions{
		Procedure:    proc,
		TimeProvider: data.NewFixedTimeProvider(started),
	})
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), domainauth.System())

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, started, result.StartedAt)
	assert.JSONEq(t, `{"expired_sessions":12,"archived_orders":3}`, string(result.Payload))
	assert.Equal(t, 1, proc.calls)
}

func TestMaintenanceService_TransportFailureNormalized(t *testing.T) {
	proc := &mockProcedure{
		runFunc: func(_ context.Context) (json.RawMessage, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	svc, err := NewMaintenanceService(MaintenanceServiceOptions{Procedure: proc})
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), domainauth.System())

	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err))
	require.NotNil(t, result)
	assert.False(t, result.Succeeded)
	assert.NotEmpty(t, result.ErrorMessage)
	// The raw transport error stays in logs, not in the returned contract.
	assert.NotContains(t, result.ErrorMessage, "connection refused")
}

func TestMaintenanceService_ProcedureReportedFailureNormalized(t *testing.T) {
	proc := &mockProcedure{
		runFunc: func(_ context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"error":"vacuum step failed"}`), nil
		},
	}
	svc, err := NewMaintenanceService(MaintenanceServiceOptions{Procedure: proc})
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), domainauth.User(domainauth.Principal{ID: "user-1"}))

	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Succeeded)
	assert.Equal(t, "vacuum step failed", result.ErrorMessage)
}

func TestMaintenanceService_SingleAttempt(t *testing.T) {
	proc := &mockProcedure{
		runFunc: func(_ context.Context) (json.RawMessage, error) {
			return nil, errors.New("transient")
		},
	}
	svc, err := NewMaintenanceService(MaintenanceServiceOptions{Procedure: proc})
	require.NoError(t, err)

	_, _ = svc.Run(context.Background(), domainauth.System())

	assert.Equal(t, 1, proc.calls)
}

func TestMaintenanceService_SummaryPathValidatedAtConstruction(t *testing.T) {
	_, err := NewMaintenanceService(MaintenanceServiceOptions{
		Procedure:   &mockProcedure{},
		SummaryPath: "expired_sessions[",
	})

	require.Error(t, err)
}

func TestMaintenanceService_SummaryPathDoesNotChangeResult(t *testing.T) {
	proc := &mockProcedure{
		runFunc: func(_ context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"expired_sessions":12}`), nil
		},
	}
	svc, err := NewMaintenanceService(MaintenanceServiceOptions{
		Procedure:   proc,
		SummaryPath: "expired_sessions",
	})
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), domainauth.System())

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.JSONEq(t, `{"expired_sessions":12}`, string(result.Payload))
}
