package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/potarin/client-go/internal/api"
	"github.com/potarin/client-go/internal/breaker"
	"github.com/potarin/client-go/internal/errors"
	"github.com/potarin/client-go/internal/executor"
	"github.com/potarin/client-go/internal/types"
)

// Logical endpoint names, used for breakers, metrics, and diagnostics.
const (
	EndpointHealth      = "health"
	EndpointSuggestions = "suggestions"
	EndpointDetails     = "details"
)

// Default deadlines. Health is cheap; the AI-backed operations wait on
// upstream generation, which routinely takes tens of seconds.
const (
	defaultHealthTimeout    = 4 * time.Second
	defaultOperationTimeout = 45 * time.Second
	reachabilityTimeout     = 2 * time.Second
)

// EndpointConfig tunes one endpoint's deadline, retry policy, and breaker.
type EndpointConfig struct {
	Timeout          time.Duration
	MaxAttempts      int
	BaseDelay        time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

func defaultEndpointConfigs() map[string]EndpointConfig {
	aiBacked := EndpointConfig{
		Timeout:          defaultOperationTimeout,
		MaxAttempts:      3,
		BaseDelay:        2 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  60 * time.Second,
	}
	return map[string]EndpointConfig{
		EndpointHealth: {
			Timeout:          defaultHealthTimeout,
			MaxAttempts:      2,
			BaseDelay:        500 * time.Millisecond,
			BreakerThreshold: 3,
			BreakerCooldown:  30 * time.Second,
		},
		EndpointSuggestions: aiBacked,
		EndpointDetails:     aiBacked,
	}
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client is the SDK entry point. One instance per backend; its breakers
// live for the client's lifetime and are shared by all calls.
type Client struct {
	baseURL   string
	http      *http.Client
	log       zerolog.Logger
	limiter   *rate.Limiter
	clock     breaker.Clock
	endpoints map[string]EndpointConfig

	execs map[string]*executor.Executor
	probe *executor.Executor // short-deadline health probe, shares the health breaker

	mu         sync.Mutex
	monitors   []*Monitor
	closedOnce uint32
}

// New constructs a Client for the backend at baseURL. Additional options
// can be provided via functional arguments.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}

	c := &Client{
		baseURL:   baseURL,
		http:      &http.Client{},
		log:       zerolog.Nop(),
		endpoints: defaultEndpointConfigs(),
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	c.execs = make(map[string]*executor.Executor, len(c.endpoints))
	for name, ep := range c.endpoints {
		c.execs[name] = c.newExecutor(name, ep)
	}

	// The reachability probe shares the health breaker but never retries
	// and fails fast.
	health := c.endpoints[EndpointHealth]
	c.probe = executor.New(executor.Config{
		Endpoint: EndpointHealth,
		Timeout:  reachabilityTimeout,
		Policy:   executor.Policy{MaxAttempts: 1, BaseDelay: health.BaseDelay},
		Limiter:  c.limiter,
		Logger:   c.log,
	}, c.http, c.execs[EndpointHealth].Breaker())

	return c
}

// newExecutor builds the per-endpoint breaker and executor. Only
// retryable failures count toward the breaker threshold: a 4xx or a
// malformed payload proves the upstream is alive, so it must not trip the
// circuit.
func (c *Client) newExecutor(name string, ep EndpointConfig) *executor.Executor {
	brkOpts := []breaker.Option{
		breaker.WithThreshold(ep.BreakerThreshold),
		breaker.WithCooldown(ep.BreakerCooldown),
		breaker.WithCondition(errors.IsRetryable),
		breaker.WithOnStateChange(c.onBreakerStateChange),
	}
	if c.clock != nil {
		brkOpts = append(brkOpts, breaker.WithClock(c.clock))
	}
	return executor.New(executor.Config{
		Endpoint: name,
		Timeout:  ep.Timeout,
		Policy:   executor.Policy{MaxAttempts: ep.MaxAttempts, BaseDelay: ep.BaseDelay},
		Limiter:  c.limiter,
		Logger:   c.log,
	}, c.http, breaker.New(name, brkOpts...))
}

func (c *Client) onBreakerStateChange(name string, from, to breaker.State) {
	breakerTransitionsTotal.WithLabelValues(name, from.String(), to.String()).Inc()
	c.log.Info().
		Str("endpoint", name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("breaker state change")
}

// Close stops any monitors started from this client and releases idle
// connections. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.mu.Lock()
	monitors := c.monitors
	c.monitors = nil
	c.mu.Unlock()
	for _, m := range monitors {
		m.Stop()
	}
	c.http.CloseIdleConnections()
	return nil
}

// --------------------------------------------------------------------
// Operations - delegated to internal/api
// --------------------------------------------------------------------

// Health checks the backend's health route.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	return api.Health(ctx, c.execs[EndpointHealth], c.baseURL)
}

// GetSuggestions asks the backend to generate course suggestions for the
// given request.
func (c *Client) GetSuggestions(ctx context.Context, req CourseRequest) (*SuggestionsResponse, error) {
	return api.Suggestions(ctx, c.execs[EndpointSuggestions], c.baseURL, types.SuggestionsRequest{Request: req})
}

// GetDetails expands one suggestion into a full course with waypoints and
// route geometry.
func (c *Client) GetDetails(ctx context.Context, courseID string, suggestion CourseSuggestion) (*DetailsResponse, error) {
	return api.Details(ctx, c.execs[EndpointDetails], c.baseURL, types.DetailsRequest{
		CourseID:   courseID,
		Suggestion: suggestion,
	})
}

// IsReachable reports whether the backend currently answers its health
// route. It uses a short deadline and no retries, so it is cheap enough
// for UI feedback and the connectivity monitor.
func (c *Client) IsReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, reachabilityTimeout)
	defer cancel()
	st, err := api.Health(ctx, c.probe, c.baseURL)
	return err == nil && st.OK()
}

// Diagnostics returns the current breaker phase and counters for every
// endpoint, keyed by endpoint name.
func (c *Client) Diagnostics() map[string]BreakerSnapshot {
	out := make(map[string]BreakerSnapshot, len(c.execs))
	for name, ex := range c.execs {
		out[name] = ex.Breaker().Snapshot()
	}
	return out
}

func (c *Client) trackMonitor(m *Monitor) {
	c.mu.Lock()
	c.monitors = append(c.monitors, m)
	c.mu.Unlock()
}
