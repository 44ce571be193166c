// Package executor runs one logical backend operation with the full
// resilience stack: breaker admission, per-attempt deadline, failure
// classification, and exponential-backoff retry.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/potarin/client-go/internal/breaker"
	"github.com/potarin/client-go/internal/errors"
	"github.com/potarin/client-go/internal/types"
)

// Responses larger than this are cut off; the backend's payloads are a few
// kilobytes at most.
const maxResponseBytes = 1 << 20

// Config tunes one Executor. Endpoint names the logical operation for
// logs, metrics, and error messages.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Policy   Policy
	Limiter  *rate.Limiter // optional outbound rate limit, shared across endpoints
	Logger   zerolog.Logger
}

// Executor issues requests for a single logical endpoint. One instance per
// endpoint; attempts within a call are strictly sequential, while distinct
// calls may run concurrently and share the breaker.
type Executor struct {
	cfg Config
	cli *http.Client
	brk *breaker.Breaker
}

// New constructs an Executor bound to its endpoint's breaker.
func New(cfg Config, cli *http.Client, brk *breaker.Breaker) *Executor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Policy.MaxAttempts <= 0 {
		cfg.Policy = DefaultPolicy
	}
	return &Executor{cfg: cfg, cli: cli, brk: brk}
}

// Breaker exposes the endpoint's breaker for diagnostics.
func (e *Executor) Breaker() *breaker.Breaker { return e.brk }

// Do performs one logical call: marshal in (if non-nil), POST/GET url, and
// decode the response payload into out (if non-nil).
//
// The endpoint deadline bounds each attempt separately, so total wall time
// can exceed one timeout when retries occur. Callers override the deadline
// per call through ctx; the tighter bound wins.
//
// Every failure comes back as a *errors.Error carrying the call's
// correlation id.
func (e *Executor) Do(ctx context.Context, method, url string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.NewClientError(fmt.Sprintf("%s: encode request: %v", e.cfg.Endpoint, err), err)
		}
		body = b
	}

	cid := uuid.NewString()
	log := e.cfg.Logger.With().
		Str("endpoint", e.cfg.Endpoint).
		Str("correlation_id", cid).
		Logger()

	if err := e.brk.Allow(); err != nil {
		breakerRejectionsTotal.WithLabelValues(e.cfg.Endpoint).Inc()
		log.Debug().Msg("breaker open, request rejected")
		return errors.NewCircuitOpen(e.cfg.Endpoint).WithCorrelation(cid)
	}

	sched := e.cfg.Policy.schedule()
	for attempt := 0; ; attempt++ {
		attemptsTotal.WithLabelValues(e.cfg.Endpoint).Inc()

		aerr := e.attempt(ctx, method, url, body, out, cid)
		if aerr == nil {
			e.brk.Record(nil)
			log.Debug().Int("attempt", attempt).Msg("request succeeded")
			return nil
		}

		cerr := aerr.WithCorrelation(cid)
		failuresTotal.WithLabelValues(e.cfg.Endpoint, cerr.Kind.String()).Inc()
		e.brk.Record(cerr)

		if !cerr.Retryable || attempt+1 >= e.cfg.Policy.MaxAttempts {
			log.Debug().Int("attempt", attempt).Str("kind", cerr.Kind.String()).Msg("request failed")
			return cerr
		}

		delay := sched.NextBackOff()
		if delay == backoff.Stop {
			return cerr
		}
		retriesTotal.WithLabelValues(e.cfg.Endpoint).Inc()
		log.Debug().
			Int("attempt", attempt).
			Str("kind", cerr.Kind.String()).
			Dur("delay", delay).
			Msg("retrying after failure")

		select {
		case <-ctx.Done():
			return cerr
		case <-time.After(delay):
		}
	}
}

// attempt issues a single bounded network attempt and classifies its
// outcome. The attempt context is cancelled when the deadline fires, so a
// losing attempt is aborted rather than abandoned.
func (e *Executor) attempt(ctx context.Context, method, url string, body []byte, out any, cid string) *errors.Error {
	if e.cfg.Limiter != nil {
		if err := e.cfg.Limiter.Wait(ctx); err != nil {
			return errors.FromTransport(e.cfg.Endpoint, err)
		}
	}

	actx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(actx, method, url, rd)
	if err != nil {
		return errors.NewClientError(fmt.Sprintf("%s: build request: %v", e.cfg.Endpoint, err), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", cid)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.cli.Do(req)
	if err != nil {
		return errors.FromTransport(e.cfg.Endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.FromTransport(e.cfg.Endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.FromStatus(e.cfg.Endpoint, resp.StatusCode, envelopeMessage(raw))
	}
	if out == nil {
		return nil
	}
	return decodePayload(e.cfg.Endpoint, raw, out)
}

// decodePayload unwraps the backend's response envelope when present and
// decodes the payload into out. The health route answers a bare object, so
// a body without an envelope is decoded as-is.
func decodePayload(endpoint string, raw []byte, out any) *errors.Error {
	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success && len(env.Data) > 0 {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewParseFailure(endpoint, err)
	}
	return nil
}

// envelopeMessage extracts the human-readable message from an error
// envelope, or "" when the body doesn't parse as one.
func envelopeMessage(raw []byte) string {
	var env types.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return ""
	}
	return env.Error.Message
}
