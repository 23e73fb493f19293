package routes

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingua-labs/lingua-web/internal/domain/auth"
)

func TestClassificationTables(t *testing.T) {
	assert.Equal(t, []string{"/get-started", "/forgot-password"}, AuthOnlyPrefixes())
	assert.Equal(t, []string{"/otp"}, OTPPrefixes())
	assert.Equal(t, []string{"/learn", "/vocabulary", "/profile", "/dashboard", "/settings"}, PrivatePrefixes())
	assert.Equal(t, []string{"/api", "/_next/static", "/_next/image", "/favicon.ico"}, ExemptPrefixes())
}

func TestTablesAreCopies(t *testing.T) {
	p := PrivatePrefixes()
	p[0] = "/mutated"
	assert.True(t, IsPrivate("/learn"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path     string
		authOnly bool
		otp      bool
		private  bool
		exempt   bool
	}{
		{path: "/get-started", authOnly: true},
		{path: "/get-started/reset", authOnly: true},
		{path: "/forgot-password", authOnly: true},
		{path: "/otp", otp: true},
		{path: "/learn/42", private: true},
		{path: "/vocabulary", private: true},
		{path: "/settings", private: true},
		{path: "/api/users", exempt: true},
		{path: "/_next/static/app.js", exempt: true},
		{path: "/favicon.ico", exempt: true},
		{path: "/"},
		{path: "/admin/dashboard"},
		{path: "/adaptive-test"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.authOnly, IsAuthOnly(tt.path))
			assert.Equal(t, tt.otp, IsOTP(tt.path))
			assert.Equal(t, tt.private, IsPrivate(tt.path))
			assert.Equal(t, tt.exempt, IsExempt(tt.path))
		})
	}
}

func TestRedirectTargets(t *testing.T) {
	assert.Equal(t, "/get-started?view=login", LoginURL())
	assert.Equal(t, "/otp?email=jane%2Bx%40example.com", OTPURL("jane+x@example.com"))
	assert.Equal(t, "/admin/dashboard", LandingFor(auth.RoleAdmin))
	assert.Equal(t, "/vocabulary", LandingFor(auth.RoleUser))
	assert.Equal(t, "/vocabulary", LandingFor(""))
}

func TestPathOf(t *testing.T) {
	assert.Equal(t, "/otp", PathOf("/otp?email=a"))
	assert.Equal(t, "/adaptive-test", PathOf("/adaptive-test"))
	assert.Equal(t, "/x", PathOf("/x#frag"))
}

func TestWithoutParam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/vocabulary?syncToken=abc123&foo=bar", "/vocabulary?foo=bar"},
		{"/vocabulary?z=1&syncToken=abc123&a=2", "/vocabulary?z=1&a=2"},
		{"/vocabulary?syncToken=abc123", "/vocabulary"},
		{"/learn?syncToken=a&syncToken=b&x=%20y", "/learn?x=%20y"},
		{"/profile", "/profile"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := url.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, WithoutParam(u, ParamSyncToken))
		})
	}
}

func TestWithParam(t *testing.T) {
	assert.Equal(t, "/get-started?view=login&session_expired=1", WithParam(LoginURL(), ParamSessionExpired, "1"))
	assert.Equal(t, "/x?a=b", WithParam("/x", "a", "b"))
}
