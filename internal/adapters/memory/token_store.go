// Package memory provides in-process adapters for single-instance and dev deployments.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const defaultTTL = 24 * time.Hour

type entry struct {
	tokens    domainauth.TokenPair
	expiresAt time.Time
}

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	DefaultTTL time.Duration
	Now        func() time.Time
}

// TokenStore is an in-memory ports.TokenStore. Expired pairs are dropped lazily on read.
type TokenStore struct {
	mu         sync.RWMutex
	items      map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore(opts TokenStoreOptions) *TokenStore {
	s := &TokenStore{
		items:      make(map[string]entry),
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = defaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Save stores tokens for sid.
func (s *TokenStore) Save(_ context.Context, sid string, tokens domainauth.TokenPair) error {
	if sid == "" {
		return errors.New("session id cannot be empty")
	}
	if tokens.IsZero() {
		return errors.New("access token cannot be empty")
	}
	now := s.now()
	ttl := tokens.StorageTTL(now, s.defaultTTL)
	if ttl <= 0 {
		return errors.New("token is expired")
	}

	s.mu.Lock()
	s.items[sid] = entry{tokens: tokens, expiresAt: now.Add(ttl)}
	s.mu.Unlock()
	return nil
}

// Get returns the pair stored for sid or ports.ErrNoToken.
func (s *TokenStore) Get(_ context.Context, sid string) (domainauth.TokenPair, error) {
	s.mu.RLock()
	e, ok := s.items[sid]
	s.mu.RUnlock()
	if !ok {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.items[sid]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.items, sid)
		}
		s.mu.Unlock()
		return domainauth.TokenPair{}, ports.ErrNoToken
	}
	return e.tokens, nil
}

// Delete removes the pair for sid.
func (s *TokenStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.items, sid)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored pairs, including expired ones not yet read.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
