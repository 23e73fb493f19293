package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const defaultFetchTimeout = 10 * time.Second

// AuthStateOptions groups dependencies for AuthState.
type AuthStateOptions struct {
	Tokens  *TokenHandle
	Fetcher ports.ProfileFetcher
	// Flights coalesces concurrent fetches for the same token. Sessions may share one group.
	Flights *singleflight.Group
	// FetchTimeout bounds a single profile fetch. A timeout settles as a failure.
	FetchTimeout time.Duration
	// ProfileTTL is how long a settled snapshot is served before Ensure resolves again.
	// Zero disables re-resolution.
	ProfileTTL time.Duration
	Logger     *slog.Logger
	Metrics    statsd.Sink
	Now        func() time.Time
}

// Checkpoint is an opaque copy of an AuthState used to roll back a failed sync.
type Checkpoint struct {
	state      domainauth.State
	resolvedAt time.Time
}

// State returns the captured snapshot.
func (c Checkpoint) State() domainauth.State { return c.state }

// AuthState resolves and caches the identity behind a session's token.
// Fetch failures are absorbed here and surface as an unauthenticated snapshot.
type AuthState struct {
	tokens     *TokenHandle
	fetcher    ports.ProfileFetcher
	flights    *singleflight.Group
	timeout    time.Duration
	profileTTL time.Duration
	logger     *slog.Logger
	metrics    statsd.Sink
	now        func() time.Time

	mu         sync.RWMutex
	state      domainauth.State
	resolvedAt time.Time
}

// NewAuthState creates a provider in the loading state.
func NewAuthState(opts AuthStateOptions) *AuthState {
	s := &AuthState{
		tokens:     opts.Tokens,
		fetcher:    opts.Fetcher,
		flights:    opts.Flights,
		timeout:    opts.FetchTimeout,
		profileTTL: opts.ProfileTTL,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		now:        opts.Now,
		state:      domainauth.LoadingState(),
	}
	if s.flights == nil {
		s.flights = &singleflight.Group{}
	}
	if s.timeout <= 0 {
		s.timeout = defaultFetchTimeout
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Snapshot returns the current state without triggering resolution.
func (s *AuthState) Snapshot() domainauth.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Normalize()
}

// Ensure returns a settled snapshot. The first call on a loading provider runs
// the initial resolution; later calls reuse the snapshot until it is older than
// the profile TTL. Failures are not retried.
func (s *AuthState) Ensure(ctx context.Context) domainauth.State {
	s.mu.RLock()
	st, at := s.state, s.resolvedAt
	s.mu.RUnlock()

	if !st.IsLoading && !s.stale(at) {
		return st.Normalize()
	}
	settled, err := s.resolve(ctx)
	if err != nil && !apperrors.IsUnauthenticated(err) {
		s.logger.WarnContext(ctx, "profile resolution failed",
			"session_id", s.tokens.SessionID(),
			"error", err)
	}
	return settled
}

// RefreshProfile re-resolves identity from the current token. While the fetch is
// in flight the snapshot reads as loading. On failure the user is cleared and the
// error is returned to the caller.
func (s *AuthState) RefreshProfile(ctx context.Context) (domainauth.State, error) {
	s.mu.Lock()
	s.state = domainauth.LoadingState()
	s.mu.Unlock()
	return s.resolve(ctx)
}

// Install settles the state for a user returned inline by the backend.
func (s *AuthState) Install(u domainauth.User) domainauth.State {
	return s.settle(domainauth.AuthenticatedState(u))
}

// Reset settles the state as signed out.
func (s *AuthState) Reset() domainauth.State {
	return s.settle(domainauth.AnonymousState())
}

// Checkpoint captures the current state.
func (s *AuthState) Checkpoint() Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Checkpoint{state: s.state, resolvedAt: s.resolvedAt}
}

// Restore puts back a state captured by Checkpoint.
func (s *AuthState) Restore(c Checkpoint) {
	s.mu.Lock()
	s.state = c.state
	s.resolvedAt = c.resolvedAt
	s.mu.Unlock()
}

func (s *AuthState) stale(resolvedAt time.Time) bool {
	if s.profileTTL <= 0 || resolvedAt.IsZero() {
		return false
	}
	return s.now().Sub(resolvedAt) >= s.profileTTL
}

func (s *AuthState) settle(st domainauth.State) domainauth.State {
	st = st.Normalize()
	s.mu.Lock()
	s.state = st
	s.resolvedAt = s.now()
	s.mu.Unlock()
	return st
}

// resolve fetches the profile for the stored token and settles the outcome.
// Resolutions for different tokens are not fenced: whichever completes last wins.
func (s *AuthState) resolve(ctx context.Context) (domainauth.State, error) {
	start := s.now()

	tokens, ok, err := s.tokens.Get(ctx)
	if err != nil {
		s.emit(metrics.ResultError, start, err)
		return s.settle(domainauth.AnonymousState()), apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "read session token")
	}
	if !ok {
		s.emit(metrics.ResultNoop, time.Time{}, nil)
		return s.settle(domainauth.AnonymousState()), apperrors.Unauthenticated("no session token")
	}

	v, err, _ := s.flights.Do("profile:"+tokens.AccessToken, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.fetcher.FetchProfile(fctx, tokens.AccessToken)
	})
	if err != nil {
		s.emit(metrics.ResultError, start, err)
		return s.settle(domainauth.AnonymousState()), err
	}

	user, _ := v.(domainauth.User)
	s.emit(metrics.ResultSuccess, start, nil)
	s.logger.DebugContext(ctx, "profile resolved",
		"session_id", s.tokens.SessionID(),
		"user_id", user.ID,
		"status", user.Status)
	return s.settle(domainauth.AuthenticatedState(user)), nil
}

func (s *AuthState) emit(result string, start time.Time, err error) {
	var d time.Duration
	if !start.IsZero() {
		d = s.now().Sub(start)
	}
	metrics.EmitAuthResolve(s.metrics, metrics.ResolveMetric{Result: result, Duration: d, Err: err})
}
