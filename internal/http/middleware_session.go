package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lingua-labs/lingua-web/internal/domain/guard"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/service"
)

// SessionBindingOptions configures SessionBinding.
type SessionBindingOptions struct {
	Sessions *service.SessionManager
	Cookies  CookieConfig
}

// SessionBinding resolves the sid cookie to a live Session and stores it in
// the request context. Browsers without a sid get one on their first page
// load; other requests without a sid pass through unbound.
func SessionBinding(opts SessionBindingOptions) Middleware {
	name := opts.Cookies.sessionName()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if c, err := r.Cookie(name); err == nil {
				sid = strings.TrimSpace(c.Value)
			}
			if sid == "" && !isBrowserRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			sess, _ := opts.Sessions.Open(sid)
			if sess.ID != sid {
				opts.Cookies.setSession(w, r, sess.ID)
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// SyncOptions configures SessionSyncMiddleware.
type SyncOptions struct {
	Sync    *service.SessionSync
	Cookies CookieConfig
}

// SessionSyncMiddleware installs a token carried in the syncToken query
// parameter, then lets the page render at the cleaned URL. htmx requests get
// Hx-Replace-Url; full pages pass the URL to the layout, which replaces the
// history entry in place.
func SessionSyncMiddleware(opts SyncOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok || r.Method != http.MethodGet || !r.URL.Query().Has(routes.ParamSyncToken) {
				next.ServeHTTP(w, r)
				return
			}

			res := opts.Sync.Run(r.Context(), service.SyncInput{
				Session:  sess,
				URL:      r.URL,
				Notifier: notifierFor(w, r),
			})
			if res.Err == nil {
				if tokens, found, err := sess.Tokens.Get(r.Context()); err == nil && found {
					opts.Cookies.setRefresh(w, r, tokens)
				}
			}

			ctx := r.Context()
			if IsHTMX(r) {
				SetHXReplaceURL(w, res.CleanURL)
			} else {
				ctx = setCleanURLInContext(ctx, res.CleanURL)
			}
			r = r.WithContext(ctx)
			if clean, err := url.ParseRequestURI(res.CleanURL); err == nil {
				u := *r.URL
				u.RawQuery = clean.RawQuery
				r.URL = &u
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuardOptions configures RequireGuard.
type GuardOptions struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
	Cookies CookieConfig
}

// RequireGuard wraps a protected layout. It settles the session's auth state,
// evaluates the guard for the requested path and either redirects or renders
// with the checked snapshot in context.
func RequireGuard(opts GuardOptions) Middleware {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				redirect(w, r, routes.LoginURL())
				return
			}

			st := sess.Auth.Ensure(r.Context())
			d := guard.Evaluate(guard.Input{State: st, Path: r.URL.Path})
			metrics.EmitGuardDecision(opts.Metrics, string(d.State), d.ShouldRedirect())

			if d.ShouldRedirect() {
				target := d.Redirect
				// A stale refresh cookie would make the edge filter bounce the
				// login page back here.
				if d.State == guard.StateUnauthenticated && hasRefreshCookie(r) {
					target = routes.WithParam(target, routes.ParamSessionExpired, "1")
				}
				logger.DebugContext(r.Context(), "guard redirect",
					"session_id", sess.ID,
					"state", d.State,
					"path", r.URL.Path,
					"location", target)
				persistToasts(w, r, opts.Cookies)
				redirect(w, r, target)
				return
			}
			next.ServeHTTP(w, r.WithContext(setAuthStateInContext(r.Context(), st)))
		})
	}
}

// RequireAdmin sends non-admin users to their own landing page. It must run
// inside RequireGuard.
func RequireAdmin(cookies CookieConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, ok := AuthStateFromContext(r.Context())
			if !ok || st.User == nil {
				redirect(w, r, routes.LoginURL())
				return
			}
			if !st.User.IsAdmin() {
				if !isBrowserRequest(r) {
					WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden"})
					return
				}
				persistToasts(w, r, cookies)
				redirect(w, r, routes.LandingFor(st.ActiveRole))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
