package config

import (
	"errors"
	"fmt"
	"strings"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScheduler runs the in-process maintenance scheduler.
	ServiceModeScheduler ServiceMode = "scheduler"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeScheduler}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScheduler:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, scheduler)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// MaintenanceConfig contains maintenance invocation and scheduling configuration.
type MaintenanceConfig struct {
	// Schedule is the cron expression for the in-process scheduler service.
	// Standard five-field cron syntax.
	Schedule string `env:"MAINTENANCE_SCHEDULE" envDefault:"0 3 * * *"`

	// SummaryPath is an optional JMESPath expression applied to the opaque
	// maintenance payload. The extracted number is logged and emitted as a
	// gauge; it never affects the returned contract.
	SummaryPath string `env:"MAINTENANCE_SUMMARY_PATH" envDefault:""`
}

// Sanitize applies guardrails to maintenance configuration values.
func (m *MaintenanceConfig) Sanitize() {
	m.Schedule = strings.TrimSpace(m.Schedule)
	if m.Schedule == "" {
		m.Schedule = "0 3 * * *"
	}
	m.SummaryPath = strings.TrimSpace(m.SummaryPath)
}
