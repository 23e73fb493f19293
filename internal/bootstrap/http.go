package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lingua-labs/lingua-web/config"
	httpx "github.com/lingua-labs/lingua-web/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler, err := httpx.NewRouter(routerServices(appCfg, cfg.Services, logger))
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	// Logs "starting HTTP server" internally
	return startServer(logger, handler, appCfg.HTTP), nil
}

func routerServices(appCfg *config.AppConfig, svc ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Sessions:       svc.Sessions,
		Sync:           svc.Sync,
		MetricsHandler: svc.Observability.MetricsHandler,
		Ready:          svc.Ready,
		Cookies: httpx.CookieConfig{
			Domain:      appCfg.HTTP.CookieDomain,
			SessionName: appCfg.Session.CookieName,
			RefreshTTL:  appCfg.Session.TokenTTL,
		},
		Metrics: svc.Observability.Sink,
		IsDev:   appCfg.IsDev,
		Logger:  logger,
	}
	// Typed nils would defeat the router's nil checks.
	if svc.Accounts != nil {
		rs.Accounts = svc.Accounts
	}
	if svc.Catalog != nil {
		rs.Catalog = svc.Catalog
	}
	if svc.Exams != nil {
		rs.Exams = svc.Exams
	}
	if svc.Withdrawals != nil {
		rs.Withdrawals = svc.Withdrawals
	}
	if svc.Dashboard != nil {
		rs.Dashboard = svc.Dashboard
	}
	if svc.Backend != nil {
		rs.BackendURL = svc.Backend.BaseURL()
	}
	return rs
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
