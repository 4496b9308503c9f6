package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// RequestTimeoutSeconds is the per-request execution ceiling. Requests
	// still in flight when it expires (including pending deliveries) are
	// truncated and surfaced as a generic internal failure.
	RequestTimeoutSeconds int `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.RequestTimeoutSeconds < 1 {
		h.RequestTimeoutSeconds = 30
	}
}
