package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/testutil"
)

func insertTestOrder(t *testing.T, db *sql.DB, id string, expectedDate *time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		INSERT INTO purchase_orders (id, po_number, supplier_id, expected_date)
		VALUES ($1, $2, 'supplier-1', $3)`,
		id, "PO-"+id, expectedDate)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO order_lines (order_id, position, product_name, ref_code, quantity)
		VALUES ($1, 1, 'Composite resin A2', 'CR-A2-4', 12),
		       ($1, 2, 'Nitrile gloves M', NULL, 3)`,
		id)
	require.NoError(t, err)
}

func TestOrderRepo_GetByID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewOrderRepo(db)

		expected := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		insertTestOrder(t, db, "order-1", &expected)

		order, err := repo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "PO-order-1", order.PONumber)
		assert.Equal(t, "supplier-1", order.SupplierID)
		assert.False(t, order.Notified)
		assert.Nil(t, order.NotifiedAt)

		require.Len(t, order.Lines, 2)
		assert.Equal(t, "Composite resin A2", order.Lines[0].ProductName)
		require.NotNil(t, order.Lines[0].RefCode)
		assert.Equal(t, "CR-A2-4", *order.Lines[0].RefCode)
		assert.Nil(t, order.Lines[1].RefCode)
		assert.Equal(t, 3, order.Lines[1].Quantity)
	})
}

func TestOrderRepo_GetByID_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOrderRepo(db)

		_, err := repo.GetByID(context.Background(), "nope")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestOrderRepo_MarkNotified(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		stamp := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
		repo := NewOrderRepoWithTimeProvider(db, NewFixedTimeProvider(stamp))

		insertTestOrder(t, db, "order-1", nil)

		require.NoError(t, repo.MarkNotified(ctx, "order-1"))

		order, err := repo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.True(t, order.Notified)
		require.NotNil(t, order.NotifiedAt)
		assert.True(t, order.NotifiedAt.Equal(stamp))

		// Idempotent: a second write converges on the same state.
		require.NoError(t, repo.MarkNotified(ctx, "order-1"))
		again, err := repo.GetByID(ctx, "order-1")
		require.NoError(t, err)
		assert.True(t, again.Notified)
	})
}

func TestOrderRepo_MarkNotified_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewOrderRepo(db)

		err := repo.MarkNotified(context.Background(), "nope")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
