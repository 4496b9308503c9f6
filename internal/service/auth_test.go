package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/ports"
)

type mockVerifier struct {
	verifyFunc func(ctx context.Context, accessToken string) (ports.Identity, error)
	calls      int
}

func (m *mockVerifier) Verify(ctx context.Context, accessToken string) (ports.Identity, error) {
	m.calls++
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, accessToken)
	}
	return ports.Identity{}, errors.New("not implemented")
}

type mockRoleLookup struct {
	getRoleFunc func(ctx context.Context, userID string) (domainauth.Role, error)
	calls       int
}

func (m *mockRoleLookup) GetRole(ctx context.Context, userID string) (domainauth.Role, error) {
	m.calls++
	if m.getRoleFunc != nil {
		return m.getRoleFunc(ctx, userID)
	}
	return "", errors.New("not implemented")
}

type mockRoleCache struct {
	entries map[string]domainauth.Role
	getErr  error
	sets    int
}

func (m *mockRoleCache) Get(_ context.Context, token string) (domainauth.Role, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	role, found := m.entries[token]
	return role, found, nil
}

func (m *mockRoleCache) Set(_ context.Context, token string, role domainauth.Role) error {
	if m.entries == nil {
		m.entries = make(map[string]domainauth.Role)
	}
	m.entries[token] = role
	m.sets++
	return nil
}

func adminVerifier() *mockVerifier {
	return &mockVerifier{
		verifyFunc: func(_ context.Context, _ string) (ports.Identity, error) {
			return ports.Identity{UserID: "user-1", Email: "dr.lang@clinic.test"}, nil
		},
	}
}

func roleLookupReturning(role domainauth.Role) *mockRoleLookup {
	return &mockRoleLookup{
		getRoleFunc: func(_ context.Context, _ string) (domainauth.Role, error) {
			return role, nil
		},
	}
}

func TestAuthService_VerifyCronSecret(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		wantErr    bool
	}{
		{name: "matching secret", configured: "s3cret", presented: "s3cret", wantErr: false},
		{name: "wrong secret", configured: "s3cret", presented: "guess", wantErr: true},
		{name: "empty presented", configured: "s3cret", presented: "", wantErr: true},
		{name: "unset configured secret fails closed", configured: "", presented: "", wantErr: true},
		{name: "unset configured secret rejects any value", configured: "", presented: "anything", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(AuthServiceOptions{CronSecret: tt.configured})

			err := svc.VerifyCronSecret(context.Background(), tt.presented)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsUnauthorized(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAuthService_AuthenticateAdmin_EmptyToken(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roleLookupReturning(domainauth.RoleAdmin),
	})

	_, err := svc.AuthenticateAdmin(context.Background(), "   ")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_AuthenticateAdmin_BadToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFunc: func(_ context.Context, _ string) (ports.Identity, error) {
			return ports.Identity{}, errors.New("userinfo: 401")
		},
	}
	roles := roleLookupReturning(domainauth.RoleAdmin)
	svc := NewAuthService(AuthServiceOptions{Verifier: verifier, Roles: roles})

	_, err := svc.AuthenticateAdmin(context.Background(), "bad-token")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, roles.calls)
}

func TestAuthService_AuthenticateAdmin_NoRoleAssigned(t *testing.T) {
	roles := &mockRoleLookup{
		getRoleFunc: func(_ context.Context, userID string) (domainauth.Role, error) {
			return "", apperrors.NotFoundf("no role assigned to user %s", userID)
		},
	}
	svc := NewAuthService(AuthServiceOptions{Verifier: adminVerifier(), Roles: roles})

	_, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.Error(t, err)
	// Valid identity without a role is forbidden, never unauthorized.
	assert.True(t, apperrors.IsForbidden(err))
	assert.False(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_AuthenticateAdmin_InsufficientRole(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roleLookupReturning(domainauth.RoleStaff),
	})

	_, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestAuthService_AuthenticateAdmin_Privileged(t *testing.T) {
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roleLookupReturning(domainauth.RoleAdmin),
	})

	principal, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "dr.lang@clinic.test", principal.Email)
	assert.Equal(t, domainauth.RoleAdmin, principal.Role)
}

func TestAuthService_AuthenticateAdmin_CacheHitSkipsLookup(t *testing.T) {
	roles := roleLookupReturning(domainauth.RoleAdmin)
	cache := &mockRoleCache{entries: map[string]domainauth.Role{
		"valid-token": domainauth.RoleAdmin,
	}}
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roles,
		Cache:    cache,
	})

	principal, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, principal.Role)
	assert.Zero(t, roles.calls)
}

func TestAuthService_AuthenticateAdmin_CacheMissPopulatesCache(t *testing.T) {
	roles := roleLookupReturning(domainauth.RoleAdmin)
	cache := &mockRoleCache{}
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roles,
		Cache:    cache,
	})

	_, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.NoError(t, err)
	assert.Equal(t, 1, roles.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, domainauth.RoleAdmin, cache.entries["valid-token"])
}

func TestAuthService_AuthenticateAdmin_CacheErrorFallsThrough(t *testing.T) {
	roles := roleLookupReturning(domainauth.RoleAdmin)
	cache := &mockRoleCache{getErr: errors.New("redis down")}
	svc := NewAuthService(AuthServiceOptions{
		Verifier: adminVerifier(),
		Roles:    roles,
		Cache:    cache,
	})

	principal, err := svc.AuthenticateAdmin(context.Background(), "valid-token")

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, principal.Role)
	assert.Equal(t, 1, roles.calls)
}
