package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lingua-labs/lingua-web/internal/adapters/memory"
	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/mocks"
	mockauth "github.com/lingua-labs/lingua-web/internal/mocks/auth"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/service"
)

const (
	testSID   = "sid-1"
	testCSRF  = "csrf-test-token"
	staticDir = "../../frontend/static"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// apiRecorder is the fake backend behind the /api proxy.
type apiRecorder struct {
	mu   sync.Mutex
	last *http.Request
}

func (a *apiRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.last = r.Clone(context.Background())
	a.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true}`)
}

func (a *apiRecorder) lastRequest() *http.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

type testEnv struct {
	t           *testing.T
	handler     http.Handler
	sessions    *service.SessionManager
	store       *memory.TokenStore
	fetcher     *mockauth.StaticProfileFetcher
	auth        *mocks.MockAuthenticator
	catalog     *mocks.MockCatalogBackend
	exams       *mocks.MockExamBackend
	withdrawals *mocks.MockWithdrawalBackend
	metrics     *metrics.Recorder
	api         *apiRecorder
}

type envOption func(*RouterServices)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := discardLogger()

	env := &testEnv{
		t:           t,
		store:       memory.NewTokenStore(memory.TokenStoreOptions{}),
		fetcher:     &mockauth.StaticProfileFetcher{Users: map[string]domainauth.User{}},
		auth:        mocks.NewMockAuthenticator(ctrl),
		catalog:     mocks.NewMockCatalogBackend(ctrl),
		exams:       mocks.NewMockExamBackend(ctrl),
		withdrawals: mocks.NewMockWithdrawalBackend(ctrl),
		metrics:     &metrics.Recorder{},
		api:         &apiRecorder{},
	}
	env.sessions = service.NewSessionManager(service.SessionManagerOptions{
		Store:   env.store,
		Fetcher: env.fetcher,
		Logger:  logger,
		Metrics: env.metrics,
	})

	apiSrv := httptest.NewServer(env.api)
	t.Cleanup(apiSrv.Close)
	target, err := url.Parse(apiSrv.URL)
	require.NoError(t, err)

	services := RouterServices{
		Sessions:    env.sessions,
		Sync:        service.NewSessionSync(service.SessionSyncOptions{Logger: logger, Metrics: env.metrics}),
		Accounts:    service.NewAccountService(service.AccountServiceOptions{Auth: env.auth, Sessions: env.sessions, Logger: logger}),
		Catalog:     service.NewCatalogService(env.catalog),
		Exams:       service.NewExamService(service.ExamServiceOptions{Backend: env.exams, Logger: logger}),
		Withdrawals: service.NewWithdrawalService(env.withdrawals),
		Dashboard:   service.NewDashboardService(env.exams, env.withdrawals),
		BackendURL:  target,
		Metrics:     env.metrics,
		Logger:      logger,
		TemplateFS:  os.DirFS(TemplatePathFromTest),
		StaticFS:    os.DirFS(staticDir),
	}
	for _, o := range opts {
		o(&services)
	}
	env.handler, err = NewRouter(services)
	require.NoError(t, err)
	return env
}

// signIn stores a token for testSID that resolves to u.
func (e *testEnv) signIn(u domainauth.User) {
	e.t.Helper()
	token := "tok-" + u.ID
	e.fetcher.Users[token] = u
	sess, _ := e.sessions.Open(testSID)
	require.NoError(e.t, sess.Tokens.Set(context.Background(), domainauth.TokenPair{AccessToken: token, RefreshToken: "r-" + u.ID}))
}

func (e *testEnv) session() *service.Session {
	e.t.Helper()
	sess, ok := e.sessions.Lookup(testSID)
	require.True(e.t, ok)
	return sess
}

func (e *testEnv) serve(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

// reqOption decorates a test request.
type reqOption func(*http.Request)

func withSession(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: testSID})
}

func withRefreshCookie(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: routes.RefreshTokenCookie, Value: "1"})
}

func withCSRF(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
	r.Header.Set(DefaultCSRFHeaderName, testCSRF)
}

func withHTMX(r *http.Request) {
	r.Header.Set("Hx-Request", "true")
}

func withCookie(c *http.Cookie) reqOption {
	return func(r *http.Request) { r.AddCookie(c) }
}

// browserGet builds a page request from a browser.
func browserGet(target string, opts ...reqOption) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.Header.Set("Accept", "text/html")
	for _, o := range opts {
		o(r)
	}
	return r
}

// formPost builds a form submission carrying a valid CSRF token.
func formPost(target string, form url.Values, opts ...reqOption) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "text/html")
	withCSRF(r)
	for _, o := range opts {
		o(r)
	}
	return r
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
