package config

import (
	"strings"
	"time"
)

// SessionStore selects the token store backend.
type SessionStore string

const (
	// SessionStoreRedis keeps tokens in Redis so restarts and replicas share them.
	SessionStoreRedis SessionStore = "redis"
	// SessionStoreMemory keeps tokens in process. Single instance only.
	SessionStoreMemory SessionStore = "memory"
)

const (
	minRegistryCapacity = 16
	maxRegistryCapacity = 1_000_000
)

// SessionConfig controls browser sessions and their auth snapshots.
type SessionConfig struct {
	// CookieName is the sid cookie name.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TokenTTL applies to stored tokens that carry no exp claim.
	TokenTTL time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"24h"`

	// ProfileTTL is how long a resolved snapshot is reused. Zero keeps it until
	// the token changes.
	ProfileTTL time.Duration `env:"SESSION_PROFILE_TTL" envDefault:"5m"`

	// RegistryCapacity caps live sessions held in memory.
	RegistryCapacity int `env:"SESSION_REGISTRY_CAPACITY" envDefault:"10000"`

	// IdleTTL evicts sessions with no requests for this long.
	IdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`

	// SweepInterval is how often the sweeper drops idle sessions.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Store selects where tokens live: redis or memory.
	Store SessionStore `env:"SESSION_STORE" envDefault:"redis"`
}

// Sanitize applies guardrails to session values.
func (c *SessionConfig) Sanitize() {
	c.CookieName = strings.TrimSpace(c.CookieName)
	if c.CookieName == "" {
		c.CookieName = "sid"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.ProfileTTL < 0 {
		c.ProfileTTL = 0
	}
	if c.RegistryCapacity < minRegistryCapacity {
		c.RegistryCapacity = minRegistryCapacity
	}
	if c.RegistryCapacity > maxRegistryCapacity {
		c.RegistryCapacity = maxRegistryCapacity
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 30 * time.Minute
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	switch SessionStore(strings.ToLower(string(c.Store))) {
	case SessionStoreMemory:
		c.Store = SessionStoreMemory
	default:
		c.Store = SessionStoreRedis
	}
}
