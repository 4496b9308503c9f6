package oidc

// Package oidc exchanges administrator bearer tokens for identities via the
// configured OIDC provider's UserInfo endpoint.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dentara/clinic-ops/internal/ports"
)

// Verifier implements the TokenVerifier port using OIDC UserInfo.
type Verifier struct {
	provider   *gooidc.Provider
	httpClient *http.Client
}

// VerifierConfig holds configuration for the OIDC verifier.
type VerifierConfig struct {
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewVerifier creates a new OIDC verifier. It performs a single discovery
// fetch at construction time.
func NewVerifier(config VerifierConfig) (*Verifier, error) {
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		provider:   provider,
		httpClient: httpClient,
	}, nil
}

// Verify exchanges an access token for the identity it belongs to. Any
// provider error means the token is not acceptable; the caller decides how
// that surfaces.
func (v *Verifier) Verify(ctx context.Context, accessToken string) (ports.Identity, error) {
	if strings.TrimSpace(accessToken) == "" {
		return ports.Identity{}, errors.New("access token is empty")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	userInfo, err := v.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	if err != nil {
		return ports.Identity{}, fmt.Errorf("oidc userinfo: %w", err)
	}

	if userInfo.Subject == "" {
		return ports.Identity{}, errors.New("userinfo response missing subject")
	}

	return ports.Identity{
		UserID: userInfo.Subject,
		Email:  userInfo.Email,
	}, nil
}
