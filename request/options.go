package request

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-admin-session/refresh"
)

const DefaultTimeout = 10 * time.Second

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its Timeout is left as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRefreshOptions configures the client's refresh coordinator.
func WithRefreshOptions(opts ...refresh.Option) Option {
	return func(c *Client) {
		c.refreshOpts = append(c.refreshOpts, opts...)
	}
}

type callConfig struct {
	skipAuthRecovery bool
}

// CallOption tunes a single call.
type CallOption func(*callConfig)

// SkipAuthRecovery disables refresh-and-retry and forced logout for one call.
func SkipAuthRecovery() CallOption {
	return func(cfg *callConfig) {
		cfg.skipAuthRecovery = true
	}
}
