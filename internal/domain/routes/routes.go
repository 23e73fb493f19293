// Package routes is the single source of truth for path classification and
// redirect targets. Both the edge filter and the route guard read these tables.
package routes

import (
	"net/url"
	"strings"

	"github.com/lingua-labs/lingua-web/internal/domain/auth"
)

// Cookie and query parameter names shared with the browser and the backend.
const (
	RefreshTokenCookie = "refreshToken"

	ParamSyncToken      = "syncToken"
	ParamSessionExpired = "session_expired"
	ParamEmail          = "email"
	ParamView           = "view"
)

// Well-known pages.
const (
	GetStarted     = "/get-started"
	ForgotPassword = "/forgot-password"
	OTP            = "/otp"
	AdaptiveTest   = "/adaptive-test"
	Vocabulary     = "/vocabulary"
	AdminDashboard = "/admin/dashboard"

	// DefaultLanding is where the edge filter sends signed-in users away from auth pages.
	DefaultLanding = Vocabulary
	// OnboardingURL is the redirect target for users without a proficiency level.
	OnboardingURL = AdaptiveTest

	// StaticPrefix serves built assets.
	StaticPrefix = "/_next/static"
	// ImagePrefix is reserved for image optimisation assets.
	ImagePrefix = "/_next/image"
	// APIPrefix is the backend proxy.
	APIPrefix = "/api"
	Favicon   = "/favicon.ico"
)

//nolint:gochecknoglobals // static read-only classification tables
var (
	authOnlyPrefixes = []string{GetStarted, ForgotPassword}
	otpPrefixes      = []string{OTP}
	privatePrefixes  = []string{"/learn", Vocabulary, "/profile", "/dashboard", "/settings"}
	exemptPrefixes   = []string{APIPrefix, StaticPrefix, ImagePrefix, Favicon}
)

// AuthOnlyPrefixes returns a copy of the auth-only table.
func AuthOnlyPrefixes() []string { return clone(authOnlyPrefixes) }

// OTPPrefixes returns a copy of the OTP table.
func OTPPrefixes() []string { return clone(otpPrefixes) }

// PrivatePrefixes returns a copy of the private table.
func PrivatePrefixes() []string { return clone(privatePrefixes) }

// ExemptPrefixes returns a copy of the filter exemption table.
func ExemptPrefixes() []string { return clone(exemptPrefixes) }

// IsAuthOnly reports whether path is an auth-only page (get-started, forgot-password).
func IsAuthOnly(path string) bool { return hasAnyPrefix(path, authOnlyPrefixes) }

// IsOTP reports whether path is the OTP verification page.
func IsOTP(path string) bool { return hasAnyPrefix(path, otpPrefixes) }

// IsPrivate reports whether path requires authentication.
func IsPrivate(path string) bool { return hasAnyPrefix(path, privatePrefixes) }

// IsExempt reports whether the edge filter must leave path alone.
func IsExempt(path string) bool { return hasAnyPrefix(path, exemptPrefixes) }

// LoginURL is the login entry point used for unauthenticated redirects.
func LoginURL() string {
	return GetStarted + "?" + ParamView + "=login"
}

// OTPURL builds the OTP verification URL for email.
func OTPURL(email string) string {
	return OTP + "?" + ParamEmail + "=" + url.QueryEscape(email)
}

// LandingFor returns the authenticated landing page for the active role.
func LandingFor(role auth.RoleName) string {
	if role == auth.RoleAdmin {
		return AdminDashboard
	}
	return Vocabulary
}

// PathOf returns the path portion of a redirect target.
func PathOf(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// WithoutParam returns u's path and query with every occurrence of name removed.
// Remaining parameters keep their original order and encoding.
func WithoutParam(u *url.URL, name string) string {
	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil && k == name {
			continue
		}
		kept = append(kept, pair)
	}
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if len(kept) > 0 {
		out += "?" + strings.Join(kept, "&")
	}
	return out
}

// WithParam returns target with name=value appended to its query.
func WithParam(target, name, value string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + url.QueryEscape(name) + "=" + url.QueryEscape(value)
}
