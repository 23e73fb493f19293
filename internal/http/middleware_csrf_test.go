package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func TestCSRF_IssuesTokenOnSafeRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	c := findCookie(rec, DefaultCSRFCookieName)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.False(t, c.HttpOnly)
	assert.Equal(t, c.Value, rec.Body.String())
}

func TestCSRF_ReusesExistingToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, r)

	assert.Equal(t, testCSRF, rec.Body.String())
	assert.Nil(t, findCookie(rec, DefaultCSRFCookieName))
}

func TestCSRF_UnsafeMethods(t *testing.T) {
	tests := []struct {
		name  string
		build func() *http.Request
		want  int
	}{
		{
			name: "missing token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/logout", nil)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
				return r
			},
			want: http.StatusForbidden,
		},
		{
			name: "header matches",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/logout", nil)
				withCSRF(r)
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "header mismatch",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/logout", nil)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
				r.Header.Set(DefaultCSRFHeaderName, "other")
				return r
			},
			want: http.StatusForbidden,
		},
		{
			name: "form field matches",
			build: func() *http.Request {
				form := url.Values{"csrf_token": {testCSRF}}
				r := httptest.NewRequest(http.MethodPost, "/otp", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRF})
				return r
			},
			want: http.StatusOK,
		},
		{
			name: "api is exempt",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/settings", nil)
			},
			want: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			csrfHandler().ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_LogoutWithoutCSRFIsRejected(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	withSession(r)
	rec := env.serve(r)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "csrf_failed")
}
