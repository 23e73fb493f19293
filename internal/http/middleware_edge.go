package httpx

import (
	"log/slog"
	"net/http"

	"github.com/lingua-labs/lingua-web/internal/domain/edge"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
)

// EdgeOptions configures EdgeRedirect.
type EdgeOptions struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// EdgeRedirect applies the cookie-only redirect rules to GET and HEAD
// navigations before any page code runs. It never looks at identity. Form
// submissions pass through so a stale refresh cookie cannot shadow the login
// POST.
func EdgeRedirect(opts EdgeOptions) Middleware {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isNavigation(r) {
				next.ServeHTTP(w, r)
				return
			}
			d := edge.Decide(edge.Request{
				Path:             r.URL.Path,
				HasRefreshCookie: hasRefreshCookie(r),
				SessionExpired:   edge.SessionExpiredFlag(r.URL.Query().Get(routes.ParamSessionExpired)),
			})
			if d.Action == edge.ActionSkip {
				next.ServeHTTP(w, r)
				return
			}

			rule := edgeRule(d)
			metrics.EmitEdgeDecision(opts.Metrics, string(d.Action), rule)
			if d.Action != edge.ActionRedirect {
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "edge redirect",
				"path", r.URL.Path,
				"rule", rule,
				"location", d.Location)
			redirect(w, r, d.Location)
		})
	}
}

func edgeRule(d edge.Decision) string {
	switch {
	case d.Action != edge.ActionRedirect:
		return "none"
	case d.Location == routes.DefaultLanding:
		return "auth-only"
	default:
		return "private"
	}
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}
