package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/lingua-labs/lingua-web/internal/domain/guard"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// Session is the per-browser owner of the token, the auth snapshot and the
// client-side guard runner. It is created on the first request carrying a new
// sid and torn down on logout or idle eviction.
type Session struct {
	ID        string
	Tokens    *TokenHandle
	Auth      *AuthState
	Guard     *guard.Runner
	CreatedAt time.Time
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Store        ports.TokenStore
	Fetcher      ports.ProfileFetcher
	Logger       *slog.Logger
	Metrics      statsd.Sink
	Capacity     int
	IdleTTL      time.Duration
	FetchTimeout time.Duration
	ProfileTTL   time.Duration
	Now          func() time.Time
}

// SessionManager owns the registry of live sessions.
type SessionManager struct {
	store        ports.TokenStore
	fetcher      ports.ProfileFetcher
	logger       *slog.Logger
	metrics      statsd.Sink
	fetchTimeout time.Duration
	profileTTL   time.Duration
	now          func() time.Time
	flights      singleflight.Group
	registry     *sessionRegistry
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	m := &SessionManager{
		store:        opts.Store,
		fetcher:      opts.Fetcher,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		fetchTimeout: opts.FetchTimeout,
		profileTTL:   opts.ProfileTTL,
		now:          opts.Now,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.registry = newSessionRegistry(registryConfig{
		Capacity: opts.Capacity,
		IdleTTL:  opts.IdleTTL,
		Now:      m.now,
		OnEvict: func(s *Session) {
			m.logger.Debug("session evicted", "session_id", s.ID)
		},
	})
	return m
}

// NewSessionID returns a fresh opaque session id.
func NewSessionID() string { return uuid.NewString() }

// Open returns the live session for sid, creating it when absent. An empty sid
// gets a fresh id. created reports whether a new Session was built.
func (m *SessionManager) Open(sid string) (sess *Session, created bool) {
	if sid == "" {
		sid = NewSessionID()
	}
	sess, created = m.registry.getOrCreate(sid, func() *Session { return m.build(sid) })
	if created {
		metrics.EmitActiveSessions(m.metrics, m.registry.len())
	}
	return sess, created
}

// Lookup returns the live session for sid without creating one.
func (m *SessionManager) Lookup(sid string) (*Session, bool) {
	if sid == "" {
		return nil, false
	}
	return m.registry.get(sid)
}

// End clears the stored token and drops the session. Ending an unknown sid
// still clears any token stored for it.
func (m *SessionManager) End(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	sess, ok := m.registry.remove(sid)
	metrics.EmitActiveSessions(m.metrics, m.registry.len())
	if ok {
		sess.Auth.Reset()
		sess.Guard.Reset()
		return sess.Tokens.Clear(ctx)
	}
	return NewTokenHandle(sid, m.store).Clear(ctx)
}

// Sweep evicts idle sessions. Stored tokens are kept, so a returning browser
// resolves again from its token.
func (m *SessionManager) Sweep() int {
	n := m.registry.sweep()
	if n > 0 {
		metrics.EmitActiveSessions(m.metrics, m.registry.len())
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				m.logger.DebugContext(ctx, "swept idle sessions", "count", n)
			}
		}
	}
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int { return m.registry.len() }

func (m *SessionManager) build(sid string) *Session {
	tokens := NewTokenHandle(sid, m.store)
	return &Session{
		ID:     sid,
		Tokens: tokens,
		Auth: NewAuthState(AuthStateOptions{
			Tokens:       tokens,
			Fetcher:      m.fetcher,
			Flights:      &m.flights,
			FetchTimeout: m.fetchTimeout,
			ProfileTTL:   m.profileTTL,
			Logger:       m.logger,
			Metrics:      m.metrics,
			Now:          m.now,
		}),
		Guard:     guard.NewRunner(),
		CreatedAt: m.now(),
	}
}
