package config

import (
	"strings"
	"time"
)

const (
	minBackendTimeout = 500 * time.Millisecond
	maxBackendTimeout = 60 * time.Second
)

// BackendConfig points the front end at the learning platform API.
type BackendConfig struct {
	// BaseURL is the API root every /api request and server-side call goes to.
	BaseURL string `env:"BACKEND_BASE_URL"`

	// Timeout bounds each backend call, profile resolution included.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`

	// EnvelopePath is a JMESPath expression selecting the payload inside
	// response envelopes. Empty means the body is the payload.
	EnvelopePath string `env:"BACKEND_ENVELOPE_PATH" envDefault:"data"`
}

// Sanitize clamps the timeout and trims the URL.
func (c *BackendConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.EnvelopePath = strings.TrimSpace(c.EnvelopePath)
	switch {
	case c.Timeout <= 0:
		c.Timeout = 10 * time.Second
	case c.Timeout < minBackendTimeout:
		c.Timeout = minBackendTimeout
	case c.Timeout > maxBackendTimeout:
		c.Timeout = maxBackendTimeout
	}
}
