package executor

import (
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Policy decides how many attempts an endpoint gets and how the delay
// between them grows. The delay before attempt a+1 is BaseDelay × 2^a:
// pure exponential, no jitter, so retry spacing is deterministic.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy is the tuning for generic endpoints.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: time.Second}

// schedule builds a fresh per-call backoff schedule.
func (p Policy) schedule() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Hour
	exp.MaxElapsedTime = 0
	exp.Reset()
	return exp
}
