package redis

// Package redis provides Redis-based adapters for lingua-web.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const (
	defaultPrefix = "lingua:token:"
	defaultTTL    = 24 * time.Hour
)

// TokenStoreOptions configures a TokenStore.
type TokenStoreOptions struct {
	// Prefix is prepended to every session id; defaults to "lingua:token:".
	Prefix string
	// DefaultTTL applies when neither token carries an exp claim.
	DefaultTTL time.Duration
	// Now overrides the clock (tests).
	Now func() time.Time
}

// TokenStore keeps one token pair per session id in Redis.
// Keys expire with the latest token exp, so a restarted front end picks up
// the same sessions and stale ones vanish on their own.
type TokenStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(client redis.UniversalClient, opts TokenStoreOptions) *TokenStore {
	s := &TokenStore{
		client:     client,
		prefix:     opts.Prefix,
		defaultTTL: opts.DefaultTTL,
		now:        opts.Now,
	}
	if s.prefix == "" {
		s.prefix = defaultPrefix
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = defaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Save stores tokens for sid, overwriting any previous pair.
func (s *TokenStore) Save(ctx context.Context, sid string, tokens domainauth.TokenPair) error {
	if sid == "" {
		return errors.New("session id cannot be empty")
	}
	if tokens.IsZero() {
		return errors.New("access token cannot be empty")
	}

	ttl := tokens.StorageTTL(s.now(), s.defaultTTL)
	if ttl <= 0 {
		return errors.New("token is expired")
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	return s.client.Set(ctx, s.prefix+sid, data, ttl).Err()
}

// Get returns the pair stored for sid or ports.ErrNoToken.
func (s *TokenStore) Get(ctx context.Context, sid string) (domainauth.TokenPair, error) {
	if sid == "" {
		return domainauth.TokenPair{}, ports.ErrNoToken
	}

	data, err := s.client.Get(ctx, s.prefix+sid).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.TokenPair{}, ports.ErrNoToken
		}
		return domainauth.TokenPair{}, fmt.Errorf("redis get: %w", err)
	}

	var tokens domainauth.TokenPair
	if unmarshalErr := json.Unmarshal(data, &tokens); unmarshalErr != nil {
		return domainauth.TokenPair{}, fmt.Errorf("unmarshal tokens: %w", unmarshalErr)
	}
	return tokens, nil
}

// Delete removes the pair for sid. Deleting a missing key is not an error.
func (s *TokenStore) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+sid).Err()
}
