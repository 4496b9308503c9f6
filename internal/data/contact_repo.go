package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentara/clinic-ops/internal/data/pgxutil"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// ContactRepo provides read access to supplier contacts. Contacts are
// administered elsewhere; the dispatcher only resolves them.
type ContactRepo struct {
	DB *sql.DB
}

// NewContactRepo creates a new ContactRepo.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db}
}

// Ordering is part of the contract: primary contact first, id as the
// deterministic tie-breaker.
const contactListDispatchableQuery = `
	SELECT id, supplier_id, name, channel_id, priority, active
	FROM supplier_contacts
	WHERE supplier_id = $1
	  AND active = TRUE
	  AND channel_id IS NOT NULL
	  AND channel_id <> ''
	ORDER BY priority ASC, id ASC`

// ListDispatchable returns the active, reachable contacts for a supplier in
// dispatch order.
func (r *ContactRepo) ListDispatchable(ctx context.Context, supplierID string) ([]model.SupplierContact, error) {
	var out []model.SupplierContact
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, contactListDispatchableQuery, supplierID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SupplierContact])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list dispatchable contacts: %w", apperrors.MapDBError(err))
	}
	return out, nil
}
