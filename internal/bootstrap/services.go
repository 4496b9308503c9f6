package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentara/clinic-ops/config"
	"github.com/dentara/clinic-ops/internal/adapters/oidc"
	redisadapter "github.com/dentara/clinic-ops/internal/adapters/redis"
	"github.com/dentara/clinic-ops/internal/data"
	"github.com/dentara/clinic-ops/internal/gateway/chatpush"
	"github.com/dentara/clinic-ops/internal/observability/statsd"
	"github.com/dentara/clinic-ops/internal/ports"
	"github.com/dentara/clinic-ops/internal/service"
)

// ServiceContainer holds the constructed services shared by the run modes.
type ServiceContainer struct {
	Auth        *service.AuthService
	Maintenance *service.MaintenanceService
	Broadcast   *service.BroadcastService
	Metrics     *statsd.Client
}

// ServiceDeps holds the dependencies needed to construct services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters, and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "clinicops",
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("init statsd client: %w", err)
	}

	authSvc, err := buildAuthService(deps, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	maintenanceSvc, err := service.NewMaintenanceService(service.MaintenanceServiceOptions{
		Procedure:   data.NewMaintenanceRepo(deps.DB),
		SummaryPath: cfg.Maintenance.SummaryPath,
		Logger:      logger,
		Metrics:     metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("init maintenance service: %w", err)
	}

	broadcastSvc, err := buildBroadcastService(deps, logger, metrics)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:        authSvc,
		Maintenance: maintenanceSvc,
		Broadcast:   broadcastSvc,
		Metrics:     metrics,
	}, nil
}

// buildAuthService assembles the auth gate. The administrative path needs an
// identity provider; without one it stays rejected-by-default and only the
// shared-secret path works.
func buildAuthService(deps *ServiceDeps, logger *slog.Logger) (*service.AuthService, error) {
	cfg := deps.Config

	var verifier ports.TokenVerifier
	if cfg.Auth.OIDC.DiscoveryURL != "" {
		v, err := oidc.NewVerifier(oidc.VerifierConfig{DiscoveryURL: cfg.Auth.OIDC.DiscoveryURL})
		if err != nil {
			return nil, fmt.Errorf("init oidc verifier: %w", err)
		}
		verifier = v
	} else {
		logger.Warn("OIDC discovery URL not configured; administrative triggers will be rejected")
	}

	var roleCache ports.RoleCache
	if deps.RedisClient != nil {
		ttl := time.Duration(cfg.Auth.RoleCacheTTLSeconds) * time.Second
		roleCache = redisadapter.NewRoleCache(deps.RedisClient, ttl)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		CronSecret: cfg.Auth.CronSecret,
		Verifier:   verifier,
		Roles:      data.NewUserRepo(deps.DB),
		Cache:      roleCache,
		Logger:     logger,
	}), nil
}

func buildBroadcastService(
	deps *ServiceDeps,
	logger *slog.Logger,
	metrics *statsd.Client,
) (*service.BroadcastService, error) {
	cfg := deps.Config

	var pusher service.MessagePusher
	if cfg.Gateway.IsConfigured() {
		client, err := chatpush.NewClient(chatpush.Config{
			BaseURL:    cfg.Gateway.BaseURL,
			Token:      cfg.Gateway.Token,
			Timeout:    cfg.Gateway.Timeout,
			RatePerSec: cfg.Gateway.RatePerSec,
		})
		if err != nil {
			return nil, fmt.Errorf("init chat push client: %w", err)
		}
		pusher = client
	} else {
		logger.Warn("chat gateway not configured; broadcast requests will be rejected")
	}

	renderer := service.NewTemplateService(service.TemplateServiceOptions{
		Templates: data.NewTemplateRepo(deps.DB),
		Logger:    logger,
	})

	return service.NewBroadcastService(service.BroadcastServiceOptions{
		Orders:   data.NewOrderRepo(deps.DB),
		Contacts: data.NewContactRepo(deps.DB),
		Renderer: renderer,
		Pusher:   pusher,
		Logger:   logger,
		Metrics:  metrics,
	}), nil
}
