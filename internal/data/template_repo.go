package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentara/clinic-ops/internal/data/pgxutil"
	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// ErrTemplateNotFound is returned when no template row exists for a category.
var ErrTemplateNotFound = errors.New("message template not found")

// TemplateRepo provides read access to message templates.
type TemplateRepo struct {
	DB *sql.DB
}

// NewTemplateRepo creates a new TemplateRepo.
func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{DB: db}
}

const templateGetQuery = `
	SELECT category, body
	FROM message_templates
	WHERE category = $1 AND body <> ''`

// Get retrieves the template body for a category. An empty body counts as
// absent so a blanked-out row cannot shadow the default.
func (r *TemplateRepo) Get(ctx context.Context, category model.TemplateCategory) (*model.MessageTemplate, error) {
	var out model.MessageTemplate
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, templateGetQuery, string(category))
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MessageTemplate])
		return err
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get message template: %w", mapped)
	}
	return &out, nil
}
