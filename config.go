package client

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envConfig holds environment-driven defaults, read with the POTARIN_
// prefix (POTARIN_BASE_URL, POTARIN_HTTP_TIMEOUT, POTARIN_DEBUG).
type envConfig struct {
	BaseURL     string        `envconfig:"BASE_URL"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT"`
	Debug       bool          `envconfig:"DEBUG"`
}

// NewFromEnv constructs a Client configured from the environment.
// POTARIN_BASE_URL is required; explicit options override env values.
func NewFromEnv(opts ...Option) (*Client, error) {
	var ec envConfig
	if err := envconfig.Process("potarin", &ec); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if ec.BaseURL == "" {
		return nil, fmt.Errorf("POTARIN_BASE_URL is required")
	}
	var all []Option
	if ec.HTTPTimeout > 0 {
		all = append(all, WithHTTPTimeout(ec.HTTPTimeout))
	}
	if ec.Debug {
		all = append(all, WithDebugLogging(true))
	}
	all = append(all, opts...)
	return New(ec.BaseURL, all...), nil
}
