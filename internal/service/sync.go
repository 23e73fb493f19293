package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
	"github.com/lingua-labs/lingua-web/internal/observability/metrics"
	"github.com/lingua-labs/lingua-web/internal/observability/statsd"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// Toast copy for sync outcomes.
const (
	syncSuccessTitle = "Signed in"
	syncSuccessMsg   = "Your session was synced from the extension."
	syncFailureTitle = "Sync failed"
	syncFailureMsg   = "We couldn't sign you in with that link. Please log in again."
)

// SessionSyncOptions groups dependencies for SessionSync.
type SessionSyncOptions struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// SessionSync installs an externally minted token carried in the syncToken
// query parameter.
type SessionSync struct {
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewSessionSync constructs a SessionSync.
func NewSessionSync(opts SessionSyncOptions) *SessionSync {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionSync{logger: logger, metrics: opts.Metrics}
}

// SyncInput groups parameters for Run.
type SyncInput struct {
	Session  *Session
	URL      *url.URL
	Notifier ports.Notifier
}

// SyncResult reports what Run did.
type SyncResult struct {
	// Triggered is false when the URL carried no sync token.
	Triggered bool
	// CleanURL is the request URI without the sync parameter, in both outcomes.
	CleanURL string
	State    domainauth.State
	Err      error
}

// Run performs install, refresh, notify and URL cleanup, in that order. On
// failure the previous token and auth snapshot are put back, a failure notice is
// emitted, and the cleaned URL is still returned.
func (s *SessionSync) Run(ctx context.Context, in SyncInput) SyncResult {
	q := in.URL.Query()
	if !q.Has(routes.ParamSyncToken) {
		return SyncResult{CleanURL: in.URL.RequestURI(), State: in.Session.Auth.Snapshot()}
	}
	token := strings.TrimSpace(q.Get(routes.ParamSyncToken))
	res := SyncResult{Triggered: true, CleanURL: routes.WithoutParam(in.URL, routes.ParamSyncToken)}

	// A failed read aborts before the store is written.
	prev, hadPrev, err := in.Session.Tokens.Get(ctx)
	if err != nil {
		return s.fail(ctx, in, res, fmt.Errorf("read current token: %w", err))
	}
	checkpoint := in.Session.Auth.Checkpoint()

	err = in.Session.Tokens.Set(ctx, domainauth.TokenPair{AccessToken: token})
	if err == nil {
		res.State, err = in.Session.Auth.RefreshProfile(ctx)
	}
	if err != nil {
		s.rollback(ctx, in.Session, rollbackInput{prev: prev, hadPrev: hadPrev, checkpoint: checkpoint})
		return s.fail(ctx, in, res, err)
	}

	notify(ctx, in.Notifier, ports.Notice{Level: ports.NoticeSuccess, Title: syncSuccessTitle, Message: syncSuccessMsg})
	metrics.EmitSyncResult(s.metrics, metrics.ResultSuccess, nil)
	s.logger.InfoContext(ctx, "session synced", "session_id", in.Session.ID, "user_id", userID(res.State))
	return res
}

func (s *SessionSync) fail(ctx context.Context, in SyncInput, res SyncResult, err error) SyncResult {
	res.State = in.Session.Auth.Snapshot()
	res.Err = err
	notify(ctx, in.Notifier, ports.Notice{Level: ports.NoticeError, Title: syncFailureTitle, Message: syncFailureMsg})
	metrics.EmitSyncResult(s.metrics, metrics.ResultError, err)
	s.logger.WarnContext(ctx, "session sync failed", "session_id", in.Session.ID, "error", err)
	return res
}

type rollbackInput struct {
	prev       domainauth.TokenPair
	hadPrev    bool
	checkpoint Checkpoint
}

func (s *SessionSync) rollback(ctx context.Context, sess *Session, in rollbackInput) {
	var err error
	if in.hadPrev {
		err = sess.Tokens.Set(ctx, in.prev)
	} else {
		err = sess.Tokens.Clear(ctx)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "restore token after failed sync", "session_id", sess.ID, "error", err)
	}
	sess.Auth.Restore(in.checkpoint)
}

func notify(ctx context.Context, n ports.Notifier, notice ports.Notice) {
	if n != nil {
		n.Notify(ctx, notice)
	}
}

func userID(st domainauth.State) string {
	if st.User == nil {
		return ""
	}
	return st.User.ID
}
