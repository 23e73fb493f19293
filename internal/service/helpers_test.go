package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lingua-labs/lingua-web/internal/adapters/memory"
	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	release chan struct{}
	calls   atomic.Int32
	user    domainauth.User
}

func newGatedFetcher(u domainauth.User) *gatedFetcher {
	return &gatedFetcher{release: make(chan struct{}), user: u}
}

func (f *gatedFetcher) FetchProfile(ctx context.Context, _ string) (domainauth.User, error) {
	f.calls.Add(1)
	select {
	case <-f.release:
		return f.user, nil
	case <-ctx.Done():
		return domainauth.User{}, ctx.Err()
	}
}

var _ ports.ProfileFetcher = (*gatedFetcher)(nil)

// funcFetcher adapts a function to ports.ProfileFetcher.
type funcFetcher func(ctx context.Context, token string) (domainauth.User, error)

func (f funcFetcher) FetchProfile(ctx context.Context, token string) (domainauth.User, error) {
	return f(ctx, token)
}

// newTestSession builds a standalone session over a memory store.
func newTestSession(t *testing.T, fetcher ports.ProfileFetcher, opts ...func(*SessionManagerOptions)) (*Session, *SessionManager) {
	t.Helper()
	o := SessionManagerOptions{
		Store:   memory.NewTokenStore(memory.TokenStoreOptions{}),
		Fetcher: fetcher,
		Logger:  discardLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	m := NewSessionManager(o)
	sess, created := m.Open("sid-test")
	require.True(t, created)
	return sess, m
}

func setToken(t *testing.T, sess *Session, token string) {
	t.Helper()
	require.NoError(t, sess.Tokens.Set(context.Background(), domainauth.TokenPair{AccessToken: token}))
}

func runParallel(n int, fn func()) {
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	wg.Wait()
}
