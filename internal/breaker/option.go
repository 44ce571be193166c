package breaker

import "time"

type config struct {
	threshold     int
	cooldown      time.Duration
	condition     Condition
	clock         Clock
	onStateChange OnStateChangeFunc
}

// Option configures a Breaker.
type Option func(*config)

// WithThreshold sets the consecutive-failure count that trips the breaker.
func WithThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays Open before admitting a
// half-open trial.
func WithCooldown(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.cooldown = d
		}
	}
}

// WithCondition sets the predicate deciding which errors count as failures.
// By default any non-nil error is a failure.
func WithCondition(cond Condition) Option {
	return func(c *config) {
		if cond != nil {
			c.condition = cond
		}
	}
}

// WithOnStateChange installs a hook fired after each state transition.
func WithOnStateChange(fn OnStateChangeFunc) Option {
	return func(c *config) { c.onStateChange = fn }
}

// WithClock sets the time source. Tests inject a fake clock to step
// through cooldowns without sleeping.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}
