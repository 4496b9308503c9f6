package config

import (
	"strings"
	"time"
)

// GatewayConfig contains the external chat push gateway settings used for
// supplier notifications.
type GatewayConfig struct {
	// BaseURL is the gateway push endpoint, e.g. "https://gate.example.com/v1/messages".
	// An empty value means the gateway is not configured and broadcast
	// requests are rejected with an operator-visible error.
	BaseURL string `env:"BASE_URL"`

	// Token authenticates this service against the gateway.
	Token string `env:"TOKEN"`

	// Timeout is the per-push HTTP timeout. Each push is single-attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// RatePerSec caps outbound pushes per second across one broadcast.
	// Zero disables rate limiting.
	RatePerSec int `env:"RATE_PER_SEC" envDefault:"0"`
}

// Sanitize normalises gateway configuration values.
func (g *GatewayConfig) Sanitize() {
	g.BaseURL = strings.TrimSpace(g.BaseURL)
	g.Token = strings.TrimSpace(g.Token)
	if g.Timeout <= 0 {
		g.Timeout = 10 * time.Second
	}
	if g.RatePerSec < 0 {
		g.RatePerSec = 0
	}
}

// IsConfigured returns true when the gateway can actually be called.
func (g *GatewayConfig) IsConfigured() bool {
	return g.BaseURL != "" && g.Token != ""
}
