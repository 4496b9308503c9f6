package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dentara/clinic-ops/internal/data/pgxutil"
	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
)

// UserRepo resolves application roles for authenticated users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userRoleQuery = `
	SELECT role
	FROM user_roles
	WHERE user_id = $1`

// GetRole looks up the role for a user id. A user with no row has no role
// and is reported as not found; the auth gate decides how that surfaces.
func (r *UserRepo) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	var role string
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, userRoleQuery, userID).Scan(&role)
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return "", apperrors.NotFoundf("no role assigned to user %s", userID)
		}
		return "", fmt.Errorf("get user role: %w", mapped)
	}
	return domainauth.Role(role), nil
}
