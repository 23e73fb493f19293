package auth

// Package auth contains simple hand-written test doubles for session and auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.TokenStore     = (*FailingTokenStore)(nil)
	_ ports.Notifier       = (*RecordingNotifier)(nil)
	_ ports.ProfileFetcher = (*StaticProfileFetcher)(nil)
)

// ErrStoreDown is returned by FailingTokenStore when a failure is armed.
var ErrStoreDown = errors.New("token store unavailable")

// FailingTokenStore is an in-memory store whose operations can be forced to fail.
type FailingTokenStore struct {
	mu       sync.Mutex
	tokens   map[string]domainauth.TokenPair
	FailSave bool
	FailGet  bool
}

// NewFailingTokenStore creates a store that succeeds until a failure is armed.
func NewFailingTokenStore() *FailingTokenStore {
	return &FailingTokenStore{tokens: make(map[string]domainauth.TokenPair)}
}

func (m *FailingTokenStore) Save(_ context.Context, sid string, tokens domainauth.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave {
		return ErrStoreDown
	}
	m.tokens[sid] = tokens
	return nil
}

func (m *FailingTokenStore) Get(_ context.Context, sid string) (domainauth.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return domainauth.TokenPair{}, ErrStoreDown
	}
	t, ok := m.tokens[sid]
	if !ok {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	return t, nil
}

func (m *FailingTokenStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, sid)
	return nil
}

// RecordingNotifier captures notices for assertions.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []ports.Notice
}

func (n *RecordingNotifier) Notify(_ context.Context, notice ports.Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

// Notices returns a copy of the recorded notices.
func (n *RecordingNotifier) Notices() []ports.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notice(nil), n.notices...)
}

// Last returns the most recent notice, if any.
func (n *RecordingNotifier) Last() (ports.Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return ports.Notice{}, false
	}
	return n.notices[len(n.notices)-1], true
}

// StaticProfileFetcher resolves tokens from a fixed table.
type StaticProfileFetcher struct {
	mu    sync.Mutex
	Users map[string]domainauth.User
	Err   error
	calls int
}

func (f *StaticProfileFetcher) FetchProfile(_ context.Context, accessToken string) (domainauth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.Err != nil {
		return domainauth.User{}, f.Err
	}
	u, ok := f.Users[accessToken]
	if !ok {
		return domainauth.User{}, errors.New("token rejected")
	}
	return u, nil
}

// Calls returns how many fetches were made.
func (f *StaticProfileFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
