package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/lingua-labs/lingua-web/config"
	"github.com/lingua-labs/lingua-web/internal/adapters/backend"
	"github.com/lingua-labs/lingua-web/internal/adapters/memory"
	redisstore "github.com/lingua-labs/lingua-web/internal/adapters/redis"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/prom"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Backend       *backend.Client
	Store         ports.TokenStore
	Sessions      *service.SessionManager
	Sync          *service.SessionSync
	Accounts      *service.AccountService
	Catalog       *service.CatalogService
	Exams         *service.ExamService
	Withdrawals   *service.WithdrawalService
	Dashboard     *service.DashboardService
	Ready         func(ctx context.Context) error
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	// Sink fans out to every enabled backend; nil when none is.
	Sink           statsd.Sink
	StatsdClient   *statsd.Client
	MetricsHandler http.Handler
	MetricsConfig  config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// buildObservability configures the StatsD and Prometheus sinks.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	out := ObservabilityContainer{MetricsConfig: cfg.Metrics}
	var fanout metrics.Fanout

	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled:    true,
			Address:    cfg.Metrics.StatsdAddress,
			Prefix:     cfg.Metrics.Prefix,
			Logger:     obsLogger,
			GlobalTags: map[string]string{"app": "lingua-web"},
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			out.StatsdClient = client
			fanout = append(fanout, client)
		}
	}

	if cfg.Metrics.PrometheusEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		fanout = append(fanout, prom.NewSink(prom.Config{
			Namespace: promNamespace(cfg.Metrics.Prefix),
			Registry:  registry,
		}))
		out.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	if len(fanout) > 0 {
		out.Sink = fanout
	}
	return out
}

// promNamespace maps a StatsD prefix onto a valid Prometheus namespace.
func promNamespace(prefix string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(prefix)
}

// buildTokenStore picks the token store backing each session.
//
//nolint:ireturn // the store is chosen from configuration at runtime.
func buildTokenStore(cfg *config.AppConfig, client redis.UniversalClient, logger *slog.Logger) ports.TokenStore {
	if cfg.Session.Store == config.SessionStoreMemory || client == nil {
		if cfg.Session.Store == config.SessionStoreRedis {
			logger.Warn("redis client unavailable, falling back to in-memory token store")
		}
		return memory.NewTokenStore(memory.TokenStoreOptions{DefaultTTL: cfg.Session.TokenTTL})
	}
	return redisstore.NewTokenStore(client, redisstore.TokenStoreOptions{
		Prefix:     cfg.Redis.KeyPrefix,
		DefaultTTL: cfg.Session.TokenTTL,
	})
}

func readyCheck(client redis.UniversalClient) func(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		return nil
	}
}

// NewServices initializes all application services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require an AppConfig")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:      cfg.Backend.BaseURL,
		Timeout:      cfg.Backend.Timeout,
		EnvelopePath: cfg.Backend.EnvelopePath,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build backend client: %w", err)
	}

	observability := buildObservability(logger, cfg.Observability)
	store := buildTokenStore(cfg, deps.RedisClient, logger)

	sessions := service.NewSessionManager(service.SessionManagerOptions{
		Store:        store,
		Fetcher:      client,
		Logger:       logger,
		Metrics:      observability.Sink,
		Capacity:     cfg.Session.RegistryCapacity,
		IdleTTL:      cfg.Session.IdleTTL,
		FetchTimeout: cfg.Backend.Timeout,
		ProfileTTL:   cfg.Session.ProfileTTL,
	})

	return ServiceContainer{
		Backend:  client,
		Store:    store,
		Sessions: sessions,
		Sync:     service.NewSessionSync(service.SessionSyncOptions{Logger: logger, Metrics: observability.Sink}),
		Accounts: service.NewAccountService(service.AccountServiceOptions{
			Auth:     client,
			Sessions: sessions,
			Logger:   logger,
		}),
		Catalog:       service.NewCatalogService(client),
		Exams:         service.NewExamService(service.ExamServiceOptions{Backend: client, Logger: logger}),
		Withdrawals:   service.NewWithdrawalService(client),
		Dashboard:     service.NewDashboardService(client, client),
		Ready:         readyCheck(deps.RedisClient),
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) (*http.Server, error) {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil, nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				deps.logger.WarnContext(ctx, "dropping background service error",
					"service", descriptor.name, "error", errMsg)
			}
		}
	}()

	deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}
		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

// newSweeperBackgroundService evicts idle sessions from the registry.
func newSweeperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeSweeper,
		name: "session sweeper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil || deps.cfg.Services.Sessions == nil {
				return errors.New("session manager not configured")
			}
			interval := time.Minute
			if deps.cfg.Config != nil {
				interval = deps.cfg.Config.Session.SweepInterval
			}
			deps.cfg.Services.Sessions.Run(ctx, interval)
			return nil
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newSweeperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) (ServiceStartupResult, error) {
	server, err := startHTTPServerIfEnabled(deps)
	if err != nil {
		return ServiceStartupResult{}, err
	}
	return ServiceStartupResult{
		HTTPServer: server,
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}, nil
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	result, err := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})
	if err != nil {
		return fmt.Errorf("start services: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		signals:     quit,
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  result.HTTPServer,
		logger:      logger,
		backgrounds: result.Background,
		waitTimeout: cfg.Config.HTTP.ShutdownTimeout,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	signals     <-chan os.Signal
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	logger      *slog.Logger
	backgrounds []backgroundServiceHandle
	waitTimeout time.Duration
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.signals:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services. The service context
// is already cancelled here, so the HTTP drain gets a fresh deadline.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.httpServer,
			Timeout: cfg.timeout(),
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.timeout(), cfg.logger)
	}

	return nil
}

func (c shutdownConfig) timeout() time.Duration {
	if c.waitTimeout > 0 {
		return c.waitTimeout
	}
	return shutdownWaitTimeout
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, timeout time.Duration, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(timeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
