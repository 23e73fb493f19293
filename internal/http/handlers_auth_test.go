package httpx

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/model"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
	"github.com/lingua-labs/lingua-web/internal/testutil"
)

func loginValues(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.NewUser().Build()
	env.auth.EXPECT().
		Login(gomock.Any(), ports.LoginInput{Email: "learner@example.com", Password: "secret"}).
		Return(ports.LoginResult{
			Tokens: domainauth.TokenPair{AccessToken: "a1", RefreshToken: "r1"},
			User:   &u,
		}, nil)

	rec := env.serve(formPost(routes.GetStarted, loginValues(" learner@example.com ", "secret"), withSession))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vocabulary", rec.Header().Get("Location"))

	refresh := findCookie(rec, routes.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "r1", refresh.Value)
	assert.Positive(t, refresh.MaxAge)
	assert.True(t, refresh.HttpOnly)
	assert.NotNil(t, findCookie(rec, FlashCookieName))

	st := env.session().Auth.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "a1", env.session().Tokens.AccessToken(context.Background()))
}

func TestLogin_AdminGoesToAdminDashboard(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.NewUser().WithRoles(domainauth.RoleAdmin).Build()
	env.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(ports.LoginResult{Tokens: domainauth.TokenPair{AccessToken: "a1"}, User: &u}, nil)

	rec := env.serve(formPost(routes.GetStarted, loginValues("admin@example.com", "secret"), withSession))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, routes.AdminDashboard, rec.Header().Get("Location"))
	refresh := findCookie(rec, routes.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "1", refresh.Value)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(ports.LoginResult{}, apperrors.Unauthenticated("bad credentials"))

	rec := env.serve(formPost(routes.GetStarted, loginValues("learner@example.com", "wrong"), withSession))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	assert.Nil(t, findCookie(rec, routes.RefreshTokenCookie))
	assert.Equal(t, 0, env.store.Len())
}

func TestLogin_ValidationSkipsBackend(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(formPost(routes.GetStarted, loginValues("not-an-email", ""), withSession))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Enter a valid email address")
	assert.Contains(t, body, "Password is required")
}

func TestLogin_FlashShownOnNextPage(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.NewUser().Build()
	env.auth.EXPECT().
		Login(gomock.Any(), gomock.Any()).
		Return(ports.LoginResult{Tokens: domainauth.TokenPair{AccessToken: "a1", RefreshToken: "r1"}, User: &u}, nil)
	env.catalog.EXPECT().ListCategories(gomock.Any(), "a1").Return([]model.Category{}, nil)

	login := env.serve(formPost(routes.GetStarted, loginValues("learner@example.com", "secret"), withSession))
	flash := findCookie(login, FlashCookieName)
	require.NotNil(t, flash)

	rec := env.serve(browserGet("/vocabulary", withSession, withRefreshCookie, withCookie(flash)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back")
	cleared := findCookie(rec, FlashCookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())
	env.auth.EXPECT().Logout(gomock.Any(), "tok-user-1").Return(nil)

	rec := env.serve(formPost("/logout", url.Values{}, withSession, withRefreshCookie))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, routes.LoginURL(), rec.Header().Get("Location"))
	assert.Equal(t, 0, env.store.Len())
	assert.Equal(t, 0, env.sessions.Len())

	for _, name := range []string{routes.RefreshTokenCookie, DefaultSessionCookieName} {
		c := findCookie(rec, name)
		require.NotNil(t, c, name)
		assert.Negative(t, c.MaxAge, name)
	}
}

func TestLogout_BackendFailureStillSignsOut(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().Build())
	env.auth.EXPECT().Logout(gomock.Any(), "tok-user-1").Return(apperrors.Unavailable("backend down"))

	rec := env.serve(formPost("/logout", url.Values{}, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestVerifyOTP_ActivatesAccount(t *testing.T) {
	env := newTestEnv(t)
	inactive := testutil.NewUser().WithStatus(domainauth.StatusInactive).Build()
	env.signIn(inactive)
	env.auth.EXPECT().
		VerifyOTP(gomock.Any(), ports.VerifyOTPInput{
			Email:       "learner@example.com",
			Code:        "123456",
			AccessToken: "tok-user-1",
		}).
		DoAndReturn(func(context.Context, ports.VerifyOTPInput) (domainauth.TokenPair, error) {
			env.fetcher.Users["tok-user-1"] = testutil.NewUser().Build()
			return domainauth.TokenPair{}, nil
		})

	form := url.Values{"email": {"learner@example.com"}, "code": {"123456"}}
	rec := env.serve(formPost(routes.OTP, form, withSession, withRefreshCookie))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vocabulary", rec.Header().Get("Location"))
	refresh := findCookie(rec, routes.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "r-user-1", refresh.Value)
	assert.Equal(t, domainauth.StatusActive, env.session().Auth.Snapshot().User.Status)
}

func TestVerifyOTP_InvalidCode(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(testutil.NewUser().WithStatus(domainauth.StatusInactive).Build())
	env.auth.EXPECT().
		VerifyOTP(gomock.Any(), gomock.Any()).
		Return(domainauth.TokenPair{}, apperrors.ValidationField("code", "invalid code"))

	form := url.Values{"email": {"learner@example.com"}, "code": {"000000"}}
	rec := env.serve(formPost(routes.OTP, form, withSession, withRefreshCookie))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid code")
}

func TestVerifyOTP_EmptyCode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(formPost(routes.OTP, url.Values{"email": {"learner@example.com"}}, withSession))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter the code from your email")
}

func TestAdaptiveTest(t *testing.T) {
	t.Run("anonymous goes to login", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(browserGet(routes.AdaptiveTest, withSession))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, routes.LoginURL(), rec.Header().Get("Location"))
	})

	t.Run("onboarding user sees the test", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(testutil.NewUser().WithoutProficiency().Build())

		rec := env.serve(browserGet(routes.AdaptiveTest, withSession, withRefreshCookie))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("inactive user verifies OTP first", func(t *testing.T) {
		env := newTestEnv(t)
		env.signIn(testutil.NewUser().WithStatus(domainauth.StatusInactive).WithoutProficiency().Build())

		rec := env.serve(browserGet(routes.AdaptiveTest, withSession, withRefreshCookie))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/otp?email=learner%40example.com", rec.Header().Get("Location"))
	})

	t.Run("stale refresh cookie marks the session expired", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.serve(browserGet(routes.AdaptiveTest, withSession, withRefreshCookie))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/get-started?view=login&session_expired=1", rec.Header().Get("Location"))
	})
}
