package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/potarin/client-go/internal/breaker"
	cerrors "github.com/potarin/client-go/internal/errors"
	"github.com/potarin/client-go/internal/types"
)

// fakeClock steps breaker cooldowns without sleeping.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
func newFakeClock() *fakeClock               { return &fakeClock{now: time.Now()} }

func newExec(t *testing.T, srv *httptest.Server, cfg Config, brk *breaker.Breaker) *Executor {
	t.Helper()
	if brk == nil {
		brk = breaker.New(cfg.Endpoint)
	}
	return New(cfg, srv.Client(), brk)
}

func envelope(data any) []byte {
	raw, _ := json.Marshal(data)
	b, _ := json.Marshal(types.Envelope{Success: true, Data: raw})
	return b
}

func kindOf(t *testing.T, err error) cerrors.Kind {
	t.Helper()
	k, ok := cerrors.KindOf(err)
	if !ok {
		t.Fatalf("not a classified error: %v", err)
	}
	return k
}

func TestDoSuccessUnwrapsEnvelope(t *testing.T) {
	t.Parallel()
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write(envelope(types.HealthStatus{Status: "ok"}))
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "health", Timeout: time.Second, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, nil)
	var out types.HealthStatus
	if err := ex.Do(context.Background(), http.MethodPost, srv.URL, map[string]string{"k": "v"}, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Status != "ok" {
		t.Fatalf("payload not unwrapped: %+v", out)
	}
	h := <-headers
	if h.Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id header")
	}
	if ct := h.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
}

func TestDoSuccessBarePayload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.HealthStatus{Status: "ok", Message: "Potarin Backend API is running"})
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "health", Timeout: time.Second, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, nil)
	var out types.HealthStatus
	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !out.OK() {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

// Two attempts against a persistently failing endpoint, one
// backoff gap of roughly BaseDelay, then ServerError.
func TestServerErrorRetriedThenSurfaced(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	base := 50 * time.Millisecond
	ex := newExec(t, srv, Config{Endpoint: "health", Timeout: time.Second, Policy: Policy{MaxAttempts: 2, BaseDelay: base}}, nil)

	start := time.Now()
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	elapsed := time.Since(start)

	if got := kindOf(t, err); got != cerrors.ServerError {
		t.Fatalf("kind = %s, want server_error", got)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
	if elapsed < base {
		t.Fatalf("expected one backoff gap of ~%v, elapsed %v", base, elapsed)
	}
}

func TestBackoffDelaysDouble(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var stamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		stamps = append(stamps, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	base := 40 * time.Millisecond
	ex := newExec(t, srv, Config{Endpoint: "suggestions", Timeout: time.Second, Policy: Policy{MaxAttempts: 3, BaseDelay: base}}, nil)
	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); err == nil {
		t.Fatal("expected error")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(stamps) != 3 {
		t.Fatalf("attempts = %d, want 3", len(stamps))
	}
	// base×2^0 then base×2^1.
	if gap := stamps[1].Sub(stamps[0]); gap < base {
		t.Fatalf("first gap %v < %v", gap, base)
	}
	if gap := stamps[2].Sub(stamps[1]); gap < 2*base {
		t.Fatalf("second gap %v < %v", gap, 2*base)
	}
}

func TestNonRetryableSingleAttempt(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "details", Timeout: time.Second, Policy: Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}}, nil)
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if got := kindOf(t, err); got != cerrors.ClientError {
		t.Fatalf("kind = %s, want client_error", got)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestParseFailureNotRetried(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "suggestions", Timeout: time.Second, Policy: Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}}, nil)
	var out types.SuggestionsResponse
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, &out)
	if got := kindOf(t, err); got != cerrors.ParseFailure {
		t.Fatalf("kind = %s, want parse_failure", got)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
}

func TestSlowAttemptClassifiesAsTimeout(t *testing.T) {
	t.Parallel()
	aborted := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			aborted <- struct{}{}
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "health", Timeout: 50 * time.Millisecond, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, nil)
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if got := kindOf(t, err); got != cerrors.Timeout {
		t.Fatalf("kind = %s, want timeout", got)
	}
	if !cerrors.IsRetryable(err) {
		t.Fatal("timeout must be retryable")
	}
	// The deadline must cancel the in-flight attempt, not abandon it.
	select {
	case <-aborted:
	case <-time.After(time.Second):
		t.Fatal("server handler was never cancelled")
	}
}

func TestErrorEnvelopeMessageSurfaced(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(types.Envelope{
			Success: false,
			Error:   &types.ErrorBody{Code: "service_unavailable", Message: "AIサービスが一時的に利用できません"},
		})
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "suggestions", Timeout: time.Second, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, nil)
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	var ce *cerrors.Error
	if e, ok := err.(*cerrors.Error); ok {
		ce = e
	} else {
		t.Fatalf("not a classified error: %v", err)
	}
	if ce.Message != "AIサービスが一時的に利用できません" {
		t.Fatalf("envelope message lost: %q", ce.Message)
	}
	if ce.CorrelationID == "" {
		t.Fatal("error missing correlation id")
	}
}

// Five consecutive network failures trip the suggestions
// breaker, the sixth call is rejected without a network attempt, and after
// the cooldown a single successful trial closes the breaker again.
func TestBreakerTripRecoveryCycle(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if failing.Load() {
			// Drop the connection so the client sees a transport error.
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}
		_, _ = w.Write(envelope(types.SuggestionsResponse{RequestID: "r1"}))
	}))
	defer srv.Close()

	clock := newFakeClock()
	brk := breaker.New("suggestions",
		breaker.WithThreshold(5),
		breaker.WithCooldown(60*time.Second),
		breaker.WithClock(clock),
		breaker.WithCondition(cerrors.IsRetryable),
	)
	ex := newExec(t, srv, Config{Endpoint: "suggestions", Timeout: time.Second, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, brk)

	for i := 0; i < 5; i++ {
		err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
		if got := kindOf(t, err); got != cerrors.NetworkFailure {
			t.Fatalf("call %d: kind = %s, want network_failure", i, got)
		}
	}
	if got := brk.State(); got != breaker.Open {
		t.Fatalf("state = %s, want open", got)
	}

	before := calls.Load()
	err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if got := kindOf(t, err); got != cerrors.CircuitOpen {
		t.Fatalf("kind = %s, want circuit_open", got)
	}
	if cerrors.IsRetryable(err) {
		t.Fatal("circuit_open must not be retryable")
	}
	if calls.Load() != before {
		t.Fatal("rejected call still reached the network")
	}

	// Cooldown elapses; the recovered backend closes the breaker again.
	clock.Advance(60 * time.Second)
	failing.Store(false)
	var out types.SuggestionsResponse
	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, &out); err != nil {
		t.Fatalf("trial call: %v", err)
	}
	snap := brk.Snapshot()
	if snap.State != "closed" || snap.Failures != 0 {
		t.Fatalf("breaker not reset after trial success: %+v", snap)
	}
	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, &out); err != nil {
		t.Fatalf("post-recovery call: %v", err)
	}
}

// With the retryable-only condition, a 400 does not move the
// breaker's failure counter, while a 500 does.
func TestClientErrorsDoNotPenalizeBreaker(t *testing.T) {
	t.Parallel()
	var status atomic.Int32
	status.Store(http.StatusBadRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	brk := breaker.New("details",
		breaker.WithThreshold(1),
		breaker.WithCondition(cerrors.IsRetryable),
	)
	ex := newExec(t, srv, Config{Endpoint: "details", Timeout: time.Second, Policy: Policy{MaxAttempts: 1, BaseDelay: time.Millisecond}}, brk)

	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); !cerrors.Is(err, cerrors.ClientError) {
		t.Fatalf("expected client_error, got %v", err)
	}
	if snap := brk.Snapshot(); snap.State != "closed" || snap.Failures != 0 {
		t.Fatalf("400 moved the breaker: %+v", snap)
	}

	status.Store(http.StatusInternalServerError)
	if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); !cerrors.Is(err, cerrors.ServerError) {
		t.Fatalf("expected server_error, got %v", err)
	}
	if got := brk.State(); got != breaker.Open {
		t.Fatalf("500 should trip a threshold-1 breaker, state = %s", got)
	}
}

func TestRateLimiterSpacesAttempts(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(envelope(types.HealthStatus{Status: "ok"}))
	}))
	defer srv.Close()

	lim := rate.NewLimiter(rate.Every(60*time.Millisecond), 1)
	ex := newExec(t, srv, Config{
		Endpoint: "health",
		Timeout:  time.Second,
		Policy:   Policy{MaxAttempts: 1, BaseDelay: time.Millisecond},
		Limiter:  lim,
	}, nil)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := ex.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("limiter did not space calls: %v", elapsed)
	}
}

func TestEncodeFailureFailsFastWithoutAttempt(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	ex := newExec(t, srv, Config{Endpoint: "suggestions", Timeout: time.Second, Policy: Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}}, nil)
	err := ex.Do(context.Background(), http.MethodPost, srv.URL, func() {}, nil)
	if !cerrors.Is(err, cerrors.ClientError) {
		t.Fatalf("expected client_error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("unencodable payload must not reach the network")
	}
}

func TestPolicyScheduleIsPureExponential(t *testing.T) {
	t.Parallel()
	p := Policy{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond}
	sched := p.schedule()
	for i, want := range []time.Duration{100, 200, 400, 800} {
		if got := sched.NextBackOff(); got != want*time.Millisecond {
			t.Fatalf("delay %d = %v, want %v", i, got, want*time.Millisecond)
		}
	}
}
