package httpx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"

	lingua "github.com/lingua-labs/lingua-web"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/http/assets"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions    *service.SessionManager
	Sync        *service.SessionSync
	Accounts    AccountsService
	Catalog     CatalogService
	Exams       ExamsService
	Withdrawals WithdrawalsService
	Dashboard   DashboardService

	// BackendURL is where /api/* is proxied to.
	BackendURL *url.URL
	// ProxyTransport overrides the bearer-injecting transport (optional).
	ProxyTransport http.RoundTripper
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// Ready backs /healthz (optional).
	Ready ReadyFunc

	Cookies CookieConfig
	Metrics statsd.Sink
	IsDev   bool // Development mode: templates and assets are read from disk.
	Logger  *slog.Logger

	// TemplateFS and StaticFS override the embedded or on-disk trees (optional).
	TemplateFS fs.FS
	StaticFS   fs.FS
}

// NewRouter builds the application handler. Health, metrics and static assets
// are served ahead of the session stack; every other path passes the edge
// filter, gets a toast collector and a bound session, has any syncToken
// applied and is CSRF-checked before it reaches its page.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := frontendFS(services)
	if err != nil {
		return nil, err
	}
	resolver, err := assets.New(assets.Options{
		FS:     staticFS,
		Prefix: routes.StaticPrefix,
		Reload: services.IsDev,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("asset manifest unavailable; using logical asset names", "error", err)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Resolver: resolver, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	proxy, err := NewAPIProxy(ProxyOptions{
		Target:    services.BackendURL,
		Transport: services.ProxyTransport,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:           tr,
		Accounts:    services.Accounts,
		Catalog:     services.Catalog,
		Exams:       services.Exams,
		Withdrawals: services.Withdrawals,
		Dashboard:   services.Dashboard,
		Cookies:     services.Cookies,
		Logger:      logger,
	}

	app := http.NewServeMux()
	app.Handle(routes.APIPrefix+"/", proxy)
	registerSessionRoutes(app, &SessionStateHandlers{Metrics: services.Metrics})
	cfg := uiRouteConfig{guard: GuardOptions{Logger: logger, Metrics: services.Metrics, Cookies: services.Cookies}}
	registerAuthRoutes(app, ui)
	registerLearnerRoutes(app, ui, cfg)
	registerAdminRoutes(app, ui, cfg)
	app.HandleFunc("GET /{$}", ui.Landing)
	app.HandleFunc("/", ui.NotFound)

	session := Chain(app,
		EdgeRedirect(EdgeOptions{Logger: logger, Metrics: services.Metrics}),
		Toasts(services.Cookies),
		SessionBinding(SessionBindingOptions{Sessions: services.Sessions, Cookies: services.Cookies}),
		SessionSyncMiddleware(SyncOptions{Sync: services.Sync, Cookies: services.Cookies}),
		CSRFProtection(CSRFConfig{Cookies: services.Cookies}),
	)

	root := http.NewServeMux()
	health := healthHandler(services.Ready)
	root.Handle("GET /healthz", health)
	root.Handle("HEAD /healthz", health)
	if services.MetricsHandler != nil {
		root.Handle("GET /metrics", services.MetricsHandler)
	}
	root.Handle("GET "+routes.StaticPrefix+"/", staticHandler(staticFS))
	root.Handle("/", session)

	return Chain(root,
		Recover(logger),
		Logging(logger),
		Metrics(services.Metrics),
	), nil
}

// frontendFS picks the template and static trees: explicit overrides first,
// then disk in dev mode, then the embedded copies.
func frontendFS(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(lingua.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(lingua.StaticFS, StaticPathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// hashedFilePattern matches content-hashed filenames such as app.abc12345.js.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticHandler serves built assets. Hashed files are cached for a year;
// everything else must be revalidated.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.StripPrefix(routes.StaticPrefix+"/", http.FileServer(http.FS(fsys)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		files.ServeHTTP(w, r)
	})
}

type uiRouteConfig struct {
	guard GuardOptions
}

func (cfg uiRouteConfig) guarded(h http.HandlerFunc) http.Handler {
	return Chain(h, RequireGuard(cfg.guard))
}

func (cfg uiRouteConfig) admin(h http.HandlerFunc) http.Handler {
	return Chain(h, RequireGuard(cfg.guard), RequireAdmin(cfg.guard.Cookies))
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionStateHandlers) {
	mux.HandleFunc("POST /session/mount", h.Mount)
	mux.HandleFunc("GET /session/state", h.State)
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET "+routes.GetStarted, h.GetStarted)
	mux.HandleFunc("POST "+routes.GetStarted, h.Login)
	mux.HandleFunc("GET "+routes.ForgotPassword, h.ForgotPassword)
	mux.HandleFunc("GET "+routes.OTP, h.OTP)
	mux.HandleFunc("POST "+routes.OTP, h.VerifyOTP)
	mux.HandleFunc("POST /logout", h.Logout)
}

func registerLearnerRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /learn", cfg.guarded(h.Learn))
	mux.Handle("GET /learn/{id}", cfg.guarded(h.LearnTopics))
	mux.Handle("GET "+routes.Vocabulary, cfg.guarded(h.Vocabulary))
	mux.Handle("GET /profile", cfg.guarded(h.Profile))
	mux.Handle("GET /dashboard", cfg.guarded(h.LearnerDashboard))
	mux.Handle("GET /settings", cfg.guarded(h.Settings))
	mux.Handle("GET "+routes.AdaptiveTest, cfg.guarded(h.AdaptiveTest))
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /admin", http.RedirectHandler(routes.AdminDashboard, http.StatusFound))
	mux.Handle("GET "+routes.AdminDashboard, cfg.admin(h.AdminDashboard))
	mux.Handle("GET /admin/exams", cfg.admin(h.AdminExams))
	mux.Handle("POST /admin/exams", cfg.admin(h.AdminCreateExam))
	mux.Handle("POST /admin/exams/import", cfg.admin(h.AdminImportExam))
	mux.Handle("GET /admin/exams/{id}", cfg.admin(h.AdminExam))
	mux.Handle("POST /admin/exams/{id}", cfg.admin(h.AdminUpdateExam))
	mux.Handle("POST /admin/exams/{id}/delete", cfg.admin(h.AdminDeleteExam))
	mux.Handle("GET /admin/attempts", cfg.admin(h.AdminAttempts))
	mux.Handle("GET /admin/withdrawals", cfg.admin(h.AdminWithdrawals))
	mux.Handle("POST /admin/withdrawals/{id}/{action}", cfg.admin(h.AdminWithdrawalAction))
}
