package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
)

// Identity represents the authenticated principal returned by the identity
// provider. Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID string // stable user identifier (sub)
	Email  string
}

// TokenVerifier exchanges a bearer access token for the identity behind it.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (Identity, error)
}

// RoleLookup resolves the application role assigned to a user.
type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (domainauth.Role, error)
}

// RoleCache is an optional read-through cache in front of RoleLookup,
// keyed by the presented bearer token. Implementations must not store the
// raw token. A miss is reported with found=false, never as an error.
type RoleCache interface {
	Get(ctx context.Context, token string) (role domainauth.Role, found bool, err error)
	Set(ctx context.Context, token string, role domainauth.Role) error
}
