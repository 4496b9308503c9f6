package config

// OIDCConfig contains the identity provider settings used to verify
// administrator bearer tokens.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"clinic-ops"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// CronSecret is the shared secret presented by the platform scheduler
	// when it hits the maintenance trigger endpoint. An empty value means
	// scheduled triggers are rejected outright.
	CronSecret string `env:"CRON_SECRET"`

	// OIDC configuration for the administrative bearer-token path.
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// RoleCacheTTLSeconds is how long a resolved user role is cached in Redis.
	RoleCacheTTLSeconds int `env:"AUTH_ROLE_CACHE_TTL_SECONDS" envDefault:"60"`
}
