package httpx

import (
	"context"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/service"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

type authStateKey struct{}

type cleanURLKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *service.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the bound session and a boolean indicating presence.
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*service.Session)
	return s, ok && s != nil
}

// setAuthStateInContext records the settled snapshot the guard evaluated, so
// handlers render exactly what was checked.
func setAuthStateInContext(ctx context.Context, st domainauth.State) context.Context {
	return context.WithValue(ctx, authStateKey{}, st)
}

// AuthStateFromContext returns the snapshot checked by the guard, if any.
func AuthStateFromContext(ctx context.Context) (domainauth.State, bool) {
	st, ok := ctx.Value(authStateKey{}).(domainauth.State)
	return st, ok
}

func setCleanURLInContext(ctx context.Context, u string) context.Context {
	return context.WithValue(ctx, cleanURLKey{}, u)
}

// CleanURLFromContext returns the URL a completed session sync asked the
// layout to put in place of the current history entry.
func CleanURLFromContext(ctx context.Context) string {
	u, _ := ctx.Value(cleanURLKey{}).(string)
	return u
}
