package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const (
	healthResponse      = `{"status":"ok"}`
	unavailableResponse = `{"status":"unavailable"}`
	readyTimeout        = 2 * time.Second
)

// ReadyFunc reports whether a dependency (the token store) can serve requests.
type ReadyFunc func(ctx context.Context) error

// healthHandler answers liveness and readiness probes. Without a ready check
// it always reports ok.
func healthHandler(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, status := healthResponse, http.StatusOK
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			err := ready(ctx)
			cancel()
			if err != nil {
				body, status = unavailableResponse, http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, body)
	}
}
