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

// OrderRepo provides database operations for purchase orders.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOrderRepoWithTimeProvider creates a new OrderRepo with a custom time provider (useful for tests).
func NewOrderRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: tp}
}

const orderGetByIDQuery = `
	SELECT id, po_number, supplier_id, expected_date, notified, notified_at, created_at
	FROM purchase_orders
	WHERE id = $1`

const orderLinesQuery = `
	SELECT product_name, ref_code, quantity
	FROM order_lines
	WHERE order_id = $1
	ORDER BY position ASC`

// GetByID retrieves a purchase order and its lines.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error) {
	var out model.PurchaseOrder
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, orderGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[model.PurchaseOrder])
		if err != nil {
			return err
		}

		lineRows, err := conn.Query(ctx, orderLinesQuery, id)
		if err != nil {
			return err
		}
		defer lineRows.Close()
		out.Lines, err = pgx.CollectRows(lineRows, pgx.RowToStructByName[model.OrderLine])
		return err
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("purchase order %s not found", id)
		}
		return nil, fmt.Errorf("get purchase order: %w", mapped)
	}
	return &out, nil
}

// MarkNotified stamps the sent marker on the order. The write is an
// idempotent "set to true"; it is never cleared by this service and carries
// no read-modify-write dependency, so no locking is needed.
func (r *OrderRepo) MarkNotified(ctx context.Context, id string) error {
	now := r.timeProvider.Now().UTC()
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE purchase_orders
			SET notified = TRUE, notified_at = $2
			WHERE id = $1
		`, id, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return apperrors.NotFoundf("purchase order %s not found", id)
		}
		return fmt.Errorf("mark order notified: %w", mapped)
	}
	return nil
}
