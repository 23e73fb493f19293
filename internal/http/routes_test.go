package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/model"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/testutil"
)

func TestRouter_HealthzDoesNotBindSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/healthz"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Nil(t, findCookie(rec, DefaultSessionCookieName))
	assert.Equal(t, 0, env.sessions.Len())
}

func TestRouter_HealthzReportsStoreFailure(t *testing.T) {
	env := newTestEnv(t, func(s *RouterServices) {
		s.Ready = func(context.Context) error { return errors.New("redis down") }
	})

	rec := env.serve(browserGet("/healthz"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestRouter_StaticAssetsBypassSessions(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/_next/static/css/app.css"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Nil(t, findCookie(rec, DefaultSessionCookieName))
}

func TestRouter_FirstPageLoadAssignsSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Learn a language")
	c := findCookie(rec, DefaultSessionCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 1, env.sessions.Len())
}

func TestRouter_LandingRedirectsSignedInUsers(t *testing.T) {
	tests := []struct {
		name string
		user domainauth.User
		want string
	}{
		{"learner", testutil.NewUser().Build(), "/vocabulary"},
		{"admin", testutil.NewUser().WithID("admin-1").WithRoles(domainauth.RoleAdmin).Build(), "/admin/dashboard"},
		{"onboarding", testutil.NewUser().WithoutProficiency().Build(), "/adaptive-test"},
		{
			"inactive",
			testutil.NewUser().WithStatus(domainauth.StatusInactive).Build(),
			"/otp?email=learner%40example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn(tt.user)

			rec := env.serve(browserGet("/", withSession, withRefreshCookie))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/no-such-page", withSession))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "looking for")
}

func TestRouter_NotFoundJSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/no-such-page", func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
	}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
}

func TestEdge_PrivatePageWithoutRefreshCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/vocabulary"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/get-started?view=login", rec.Header().Get("Location"))
	samples := env.metrics.Samples(metrics.EdgeDecision)
	require.Len(t, samples, 1)
	assert.Equal(t, "redirect", samples[0].Tags["action"])
	assert.Equal(t, "private", samples[0].Tags["rule"])
	assert.Equal(t, 0, env.sessions.Len())
}

func TestEdge_HTMXRedirectUsesHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/learn/animals", withHTMX))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/get-started?view=login", rec.Header().Get("Hx-Redirect"))
}

func TestEdge_AuthPageWithRefreshCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/forgot-password", withRefreshCookie))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/vocabulary", rec.Header().Get("Location"))
}

func TestEdge_SessionExpiredShowsLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/get-started?view=login&session_expired=1", withSession, withRefreshCookie))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your session has expired")
}

func TestEdge_StaleRefreshCookieCanSignIn(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.NewUser().Build()
	env.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(ports.LoginResult{Tokens: domainauth.TokenPair{AccessToken: "a1", RefreshToken: "r1"}, User: &u}, nil)

	rec := env.serve(browserGet("/vocabulary", withSession, withRefreshCookie))
	require.Equal(t, http.StatusFound, rec.Code)
	loginURL := rec.Header().Get("Location")
	assert.Equal(t, "/get-started?view=login&session_expired=1", loginURL)

	rec = env.serve(browserGet(loginURL, withSession, withRefreshCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_expired=1")

	// A POST without the flag still reaches the login handler.
	rec = env.serve(formPost("/get-started?view=login", loginValues("learner@example.com", "secret"), withSession, withRefreshCookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vocabulary", rec.Header().Get("Location"))
	assert.True(t, env.session().Auth.Snapshot().IsAuthenticated)

	refresh := findCookie(rec, routes.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "r1", refresh.Value)
}

func TestGuard_RedirectsByStatus(t *testing.T) {
	tests := []struct {
		name string
		user domainauth.User
		want string
	}{
		{
			"inactive goes to otp",
			testutil.NewUser().WithStatus(domainauth.StatusInactive).Build(),
			"/otp?email=learner%40example.com",
		},
		{"missing proficiency goes to the adaptive test", testutil.NewUser().WithoutProficiency().Build(), "/adaptive-test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.signIn(tt.user)

			rec := env.serve(browserGet("/vocabulary", withSession, withRefreshCookie))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestGuard_UnauthenticatedWithRefreshCookieMarksSessionExpired(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/profile", withSession, withRefreshCookie))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/get-started?view=login&session_expired=1", rec.Header().Get("Location"))

	samples := env.metrics.Samples(metrics.GuardDecision)
	require.Len(t, samples, 1)
	assert.Equal(t, "unauthenticated", samples[0].Tags["state"])
	assert.Equal(t, "true", samples[0].Tags["redirect"])
}

func TestGuard_ReadyRendersPage(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())
	env.catalog.EXPECT().
		ListCategories(gomock.Any(), "tok-user-1").
		Return([]model.Category{{ID: "c1", Name: "Animals"}}, nil)

	rec := env.serve(browserGet("/vocabulary", withSession, withRefreshCookie))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Animals")
	assert.Contains(t, body, "<html")
	assert.Contains(t, body, `data-guarded="true"`)
}

func TestGuard_PartialRenderForHTMX(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())
	env.catalog.EXPECT().
		ListTopics(gomock.Any(), "tok-user-1", "c1").
		Return([]model.Topic{{ID: "t1", CategoryID: "c1", Name: "Farm animals"}}, nil)

	rec := env.serve(browserGet("/learn/c1", withSession, withRefreshCookie, withHTMX))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Farm animals")
	assert.NotContains(t, rec.Body.String(), "<html")
}

func TestGuard_BackendRejectionExpiresSession(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())
	env.exams.EXPECT().
		ListExams(gomock.Any(), "tok-user-1", gomock.Any()).
		Return(model.Page[model.Exam]{}, apperrors.Unauthenticated("token expired"))

	rec := env.serve(browserGet("/dashboard", withSession, withRefreshCookie))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/get-started?view=login", rec.Header().Get("Location"))
	c := findCookie(rec, routes.RefreshTokenCookie)
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
	assert.NotNil(t, findCookie(rec, FlashCookieName))
	assert.Equal(t, 0, env.store.Len())
}

func TestAdmin_LearnerSentToOwnLanding(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())

	rec := env.serve(browserGet("/admin/dashboard", withSession, withRefreshCookie))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/vocabulary", rec.Header().Get("Location"))
}

func TestAdmin_AnonymousSentToLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(browserGet("/admin/exams", withSession))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/get-started?view=login", rec.Header().Get("Location"))
}
