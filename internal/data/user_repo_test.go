package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/testutil"
)

func TestUserRepo_GetRole(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		_, err := db.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role)
			VALUES ('user-1', 'admin'), ('user-2', 'staff')`)
		require.NoError(t, err)

		role, err := repo.GetRole(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, role)
		assert.True(t, role.Privileged())

		role, err = repo.GetRole(ctx, "user-2")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleStaff, role)
		assert.False(t, role.Privileged())
	})
}

func TestUserRepo_GetRole_NoRoleAssigned(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.GetRole(context.Background(), "stranger")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
