// Package service contains the orchestration layer: trigger authentication,
// maintenance invocation, template rendering, and broadcast dispatch.
package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/ports"
)

// AuthService is the gate in front of the trigger endpoints. It accepts two
// credential shapes: the platform scheduler's shared secret, and an
// administrator bearer token resolved to a principal with a role.
//
// Callers only ever see "unauthorized" or "forbidden"; which sub-check
// rejected a credential is recorded in logs, not in the response.
type AuthService struct {
	cronSecret string
	verifier   ports.TokenVerifier
	roles      ports.RoleLookup
	cache      ports.RoleCache
	logger     *slog.Logger
}

// AuthServiceOptions configures the auth service.
type AuthServiceOptions struct {
	// CronSecret is the shared secret for the scheduled-trigger path. Empty
	// means the path is disabled and every scheduled trigger is rejected.
	CronSecret string
	Verifier   ports.TokenVerifier
	Roles      ports.RoleLookup
	// Cache is optional; when nil every request hits the role lookup.
	Cache  ports.RoleCache
	Logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		cronSecret: strings.TrimSpace(opts.CronSecret),
		verifier:   opts.Verifier,
		roles:      opts.Roles,
		cache:      opts.Cache,
		logger:     logger,
	}
}

// VerifyCronSecret checks the scheduled-trigger shared secret. An unset
// configured secret rejects everything rather than failing open.
func (s *AuthService) VerifyCronSecret(ctx context.Context, presented string) error {
	if s.cronSecret == "" {
		s.logger.WarnContext(ctx, "scheduled trigger rejected: cron secret not configured")
		return apperrors.Unauthorized("Unauthorized")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(s.cronSecret)) != 1 {
		s.logger.InfoContext(ctx, "scheduled trigger rejected: secret mismatch")
		return apperrors.Unauthorized("Unauthorized")
	}
	return nil
}

// AuthenticateAdmin exchanges an administrator bearer token for a privileged
// principal. A token the identity provider will not vouch for is
// unauthorized; a valid identity without a privileged role is forbidden.
func (s *AuthService) AuthenticateAdmin(ctx context.Context, token string) (domainauth.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domainauth.Principal{}, apperrors.Unauthorized("Unauthorized")
	}
	if s.verifier == nil || s.roles == nil {
		s.logger.ErrorContext(ctx, "admin trigger rejected: identity verifier or role lookup not wired")
		return domainauth.Principal{}, apperrors.Unauthorized("Unauthorized")
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		s.logger.InfoContext(ctx, "admin trigger rejected: token verification failed", "error", err)
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Unauthorized")
	}

	role, err := s.resolveRole(ctx, token, identity.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.InfoContext(ctx, "admin trigger rejected: no role assigned",
				"user_id", identity.UserID)
			return domainauth.Principal{}, apperrors.Forbidden("Forbidden")
		}
		s.logger.ErrorContext(ctx, "admin trigger rejected: role lookup failed",
			"user_id", identity.UserID, "error", err)
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Unauthorized")
	}

	if !role.Privileged() {
		s.logger.InfoContext(ctx, "admin trigger rejected: insufficient role",
			"user_id", identity.UserID, "role", string(role))
		return domainauth.Principal{}, apperrors.Forbidden("Forbidden")
	}

	return domainauth.Principal{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  role,
	}, nil
}

// resolveRole reads through the optional role cache. Cache failures are
// logged and treated as misses; the lookup is the source of truth.
func (s *AuthService) resolveRole(ctx context.Context, token, userID string) (domainauth.Role, error) {
	if s.cache != nil {
		role, found, err := s.cache.Get(ctx, token)
		if err != nil {
			s.logger.WarnContext(ctx, "role cache read failed", "error", err)
		} else if found {
			return role, nil
		}
	}

	role, err := s.roles.GetRole(ctx, userID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, role); err != nil {
			s.logger.WarnContext(ctx, "role cache write failed", "error", err)
		}
	}
	return role, nil
}
