package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/lingua-labs/lingua-web/internal/adapters/backend"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
)

// ProxyOptions configures NewAPIProxy.
type ProxyOptions struct {
	Target *url.URL
	// Transport carries requests to the backend. It must inject the bearer token
	// placed on the request context by backend.WithToken.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewAPIProxy forwards /api/* to the backend with the session's access token
// as a bearer credential. Web-tier cookies never leave this process.
func NewAPIProxy(opts ProxyOptions) (http.Handler, error) {
	if opts.Target == nil {
		return nil, errors.New("proxy target is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	transport := opts.Transport
	if transport == nil {
		transport = backend.NewBearerTransport(nil)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = trimAPIPrefix(pr.In.URL.Path)
			pr.Out.URL.RawPath = trimAPIPrefix(pr.In.URL.RawPath)
			pr.SetURL(opts.Target)
			pr.SetXForwarded()
			pr.Out.Header.Del("Cookie")
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WarnContext(r.Context(), "api proxy failed", "path", r.URL.Path, "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusBadGateway,
				ErrCode: "backend_unavailable",
				Err:     errors.New("backend unavailable"),
			})
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := SessionFromContext(r.Context()); ok {
			if token := sess.Tokens.AccessToken(r.Context()); token != "" {
				r = r.WithContext(backend.WithToken(r.Context(), token))
			}
		}
		rp.ServeHTTP(w, r)
	}), nil
}

func trimAPIPrefix(p string) string {
	if p == "" {
		return ""
	}
	p = strings.TrimPrefix(p, routes.APIPrefix)
	if p == "" {
		return "/"
	}
	return p
}
