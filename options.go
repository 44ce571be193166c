package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/potarin/client-go/internal/breaker"
)

// Option configures a Client during construction in New.
//
// Options run before the per-endpoint executors are built, so they may
// adjust endpoint tuning, the HTTP client, and the transport. Options must
// be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPClient replaces the underlying *http.Client. Useful for custom
// transports and for tests driving an httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the http.Client Timeout.
//
// Per-attempt deadlines are enforced by each endpoint's configuration;
// this timeout is a coarse safety net bounding a single HTTP request
// (connection, TLS handshake, redirects, response read). The value must be
// greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithLogger installs a zerolog logger for attempt, retry, and breaker
// events. Logging is disabled by default.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = log
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response
// is dumped when enabled is true.
//
// Do not enable this option in production environments as it increases
// verbosity and may include headers and payloads in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = defaultTransport()
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}

// WithRateLimit caps the outbound request rate across all endpoints,
// including retries. rps must be greater than zero.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			return fmt.Errorf("rate limit must be > 0")
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithEndpointConfig overrides the tuning for one endpoint (EndpointHealth,
// EndpointSuggestions, or EndpointDetails). Zero fields keep their
// defaults.
func WithEndpointConfig(endpoint string, cfg EndpointConfig) Option {
	return func(c *Client) error {
		cur, ok := c.endpoints[endpoint]
		if !ok {
			return fmt.Errorf("unknown endpoint %q", endpoint)
		}
		if cfg.Timeout > 0 {
			cur.Timeout = cfg.Timeout
		}
		if cfg.MaxAttempts > 0 {
			cur.MaxAttempts = cfg.MaxAttempts
		}
		if cfg.BaseDelay > 0 {
			cur.BaseDelay = cfg.BaseDelay
		}
		if cfg.BreakerThreshold > 0 {
			cur.BreakerThreshold = cfg.BreakerThreshold
		}
		if cfg.BreakerCooldown > 0 {
			cur.BreakerCooldown = cfg.BreakerCooldown
		}
		c.endpoints[endpoint] = cur
		return nil
	}
}

// WithClock sets the time source for breaker cooldowns. Tests inject a
// fake clock to step through cooldowns without sleeping.
func WithClock(clock breaker.Clock) Option {
	return func(c *Client) error {
		c.clock = clock
		return nil
	}
}
