package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentara/clinic-ops/internal/data/pgxutil"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// MaintenanceRepo invokes the privileged maintenance procedure. The
// procedure is a black box owned by the database; this service makes a
// single no-argument call and never assumes anything about its internal
// steps, retries, or side effects.
type MaintenanceRepo struct {
	DB *sql.DB
}

// NewMaintenanceRepo creates a new MaintenanceRepo.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo {
	return &MaintenanceRepo{DB: db}
}

// Run executes the maintenance procedure and returns its opaque payload.
func (r *MaintenanceRepo) Run(ctx context.Context) (json.RawMessage, error) {
	var payload []byte
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT run_daily_maintenance()`).Scan(&payload)
	}); err != nil {
		return nil, fmt.Errorf("run maintenance procedure: %w", apperrors.MapDBError(err))
	}
	if len(payload) == 0 {
		payload = []byte("null")
	}
	return json.RawMessage(payload), nil
}
