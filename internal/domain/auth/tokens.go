package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsZero reports whether no access token is held.
func (p TokenPair) IsZero() bool { return p.AccessToken == "" }

// ExpiresAt returns the latest exp claim carried by either token. Tokens are
// parsed without signature verification; the backend remains the authority on
// validity and this is only used to bound local storage lifetime.
func (p TokenPair) ExpiresAt() (time.Time, bool) {
	var latest time.Time
	for _, raw := range []string{p.AccessToken, p.RefreshToken} {
		if exp, ok := tokenExpiry(raw); ok && exp.After(latest) {
			latest = exp
		}
	}
	return latest, !latest.IsZero()
}

// StorageTTL returns how long the pair should be retained from now. Opaque
// tokens, or tokens without exp, get fallback.
func (p TokenPair) StorageTTL(now time.Time, fallback time.Duration) time.Duration {
	exp, ok := p.ExpiresAt()
	if !ok {
		return fallback
	}
	return exp.Sub(now)
}

func tokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
