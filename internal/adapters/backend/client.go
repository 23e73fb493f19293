// Package backend is the HTTP adapter for the learning platform API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds every backend call, including profile resolution.
	Timeout time.Duration
	// EnvelopePath is a JMESPath expression selecting the payload in a response
	// body. Empty means the body is the payload.
	EnvelopePath string
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client talks to the backend API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	timeout time.Duration
	http    *http.Client
	extract func(any) (any, error)
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: u,
		timeout: timeout,
		http:    &http.Client{Transport: NewBearerTransport(cfg.Transport)},
	}

	if expr := strings.TrimSpace(cfg.EnvelopePath); expr != "" {
		compiled, compileErr := jmespath.Compile(expr)
		if compileErr != nil {
			return nil, fmt.Errorf("compile envelope path %q: %w", expr, compileErr)
		}
		c.extract = compiled.Search
	}
	return c, nil
}

// BaseURL returns the backend root, for the /api reverse proxy.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

type tokenKey struct{}

// WithToken attaches a bearer token to ctx for BearerTransport.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey{}).(string)
	return v
}

// BearerTransport injects the request context's token as an Authorization header.
// Requests without a token pass through untouched.
type BearerTransport struct {
	Base http.RoundTripper
}

// NewBearerTransport wraps base, defaulting to http.DefaultTransport.
func NewBearerTransport(base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := tokenFrom(req.Context())
	if token == "" {
		return t.Base.RoundTrip(req)
	}
	ot := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   t.Base,
	}
	return ot.RoundTrip(req)
}

// call describes one backend request.
type call struct {
	op     string
	method string
	path   string
	token  string
	query  url.Values
	body   any
	// raw, when set, is sent verbatim with contentType.
	raw         io.Reader
	contentType string
}

// endpoint joins the base URL with an already-escaped path.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	if p, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = p
	} else {
		u.Path = c.baseURL.Path + path
		u.RawPath = ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	var body io.Reader
	contentType := cl.contentType
	switch {
	case cl.raw != nil:
		body = cl.raw
	case cl.body != nil:
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: encode request", cl.op)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(WithToken(ctx, cl.token), cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: build request", cl.op)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do performs cl and decodes the payload into out (which may be nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.MapTransport(err, cl.op)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return apperrors.MapTransport(err, cl.op)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.MapStatus(resp.StatusCode, errorMessage(data))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return c.decodePayload(cl.op, data, out)
}

func (c *Client) decodePayload(op string, data []byte, out any) error {
	if c.extract == nil {
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: decode response", op)
		}
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: decode response", op)
	}
	selected, err := c.extract(doc)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: select payload", op)
	}
	if selected == nil {
		// Unwrapped response.
		selected = doc
	}
	b, err := json.Marshal(selected)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: re-encode payload", op)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "%s: decode payload", op)
	}
	return nil
}

// errorMessage pulls a human message out of an error body. The backend answers
// with {"message": "..."} or {"message": ["...", "..."]} and sometimes {"error": "..."}.
func errorMessage(data []byte) string {
	var body struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch m := body.Message.(type) {
	case string:
		return m
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return body.Error
}
