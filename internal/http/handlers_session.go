package httpx

import (
	"net/http"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/guard"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
)

// SessionStateHandlers serve the guard runner to the client-side layout.
// The layout mounts once, then observes on every navigation; a redirect is
// returned only when the observed inputs changed.
type SessionStateHandlers struct {
	Metrics statsd.Sink
}

type sessionStateResponse struct {
	State    guard.Name       `json:"state"`
	Redirect string           `json:"redirect,omitempty"`
	Mounted  bool             `json:"mounted"`
	Auth     domainauth.State `json:"auth"`
}

// Mount handles POST /session/mount.
func (h *SessionStateHandlers) Mount(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "no_session"})
		return
	}
	sess.Guard.Mount()
	h.observe(w, r)
}

// State handles GET /session/state?path=<current path>.
func (h *SessionStateHandlers) State(w http.ResponseWriter, r *http.Request) {
	if _, ok := SessionFromContext(r.Context()); !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "no_session"})
		return
	}
	h.observe(w, r)
}

func (h *SessionStateHandlers) observe(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())
	st := sess.Auth.Ensure(r.Context())
	d := sess.Guard.Observe(guard.Input{State: st, Path: observedPath(r)})
	metrics.EmitGuardDecision(h.Metrics, string(d.State), d.ShouldRedirect())

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, sessionStateResponse{
		State:    d.State,
		Redirect: d.Redirect,
		Mounted:  sess.Guard.Mounted(),
		Auth:     st,
	})
}

// observedPath reads the path the client is on. Anything that is not a local
// absolute path is treated as the root.
func observedPath(r *http.Request) string {
	p := strings.TrimSpace(r.URL.Query().Get("path"))
	if p == "" {
		if err := r.ParseForm(); err == nil {
			p = strings.TrimSpace(r.PostForm.Get("path"))
		}
	}
	p = routes.PathOf(safeRedirectPath(p))
	if p == "" {
		return "/"
	}
	return p
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" || !strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "//") ||
		strings.Contains(candidate, `\`) {
		return "/"
	}
	return candidate
}
