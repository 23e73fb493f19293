package httpx

import (
	"net/http"
	"time"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
)

// CookieConfig holds the attributes shared by every cookie the web tier sets.
type CookieConfig struct {
	Domain string
	// SessionName is the sid cookie name.
	SessionName string
	// RefreshTTL bounds the refresh cookie when the token carries no expiry.
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (c CookieConfig) sessionName() string {
	if c.SessionName == "" {
		return DefaultSessionCookieName
	}
	return c.SessionName
}

func (c CookieConfig) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// cookieParams groups cookie attributes (≤3 params rule).
type cookieParams struct {
	Name   string
	Value  string
	MaxAge int
	// Script makes the cookie readable from JavaScript.
	Script bool
}

func (c CookieConfig) set(w http.ResponseWriter, r *http.Request, p cookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: !p.Script,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clear expires a cookie, mirroring the attributes used when it was set so
// browsers match it for deletion.
func (c CookieConfig) clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) setSession(w http.ResponseWriter, r *http.Request, sid string) {
	c.set(w, r, cookieParams{Name: c.sessionName(), Value: sid, MaxAge: sessionCookieMaxAge})
}

// setRefresh marks the browser as holding a session. The edge filter only
// checks that the cookie exists.
func (c CookieConfig) setRefresh(w http.ResponseWriter, r *http.Request, tokens domainauth.TokenPair) {
	value := tokens.RefreshToken
	if value == "" {
		value = "1"
	}
	ttl := tokens.StorageTTL(c.now(), c.RefreshTTL)
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c.set(w, r, cookieParams{Name: routes.RefreshTokenCookie, Value: value, MaxAge: int(ttl.Seconds())})
}

// hasRefreshCookie reports whether the request carries a non-empty refresh cookie.
func hasRefreshCookie(r *http.Request) bool {
	c, err := r.Cookie(routes.RefreshTokenCookie)
	return err == nil && c.Value != ""
}
