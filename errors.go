package client

import "github.com/potarin/client-go/internal/errors"

// Error is the structured error surfaced by every SDK operation. Callers
// branch on its Kind rather than on message text.
type Error = errors.Error

// ErrorKind tags the failure class of an Error.
type ErrorKind = errors.Kind

// Failure classifications.
const (
	KindNetworkFailure = errors.NetworkFailure
	KindTimeout        = errors.Timeout
	KindRateLimited    = errors.RateLimited
	KindServerError    = errors.ServerError
	KindClientError    = errors.ClientError
	KindParseFailure   = errors.ParseFailure
	KindCircuitOpen    = errors.CircuitOpen
)

// IsRetryable reports whether err is a classified error the SDK considers
// transient. Retryable errors have already exhausted their endpoint's
// retry budget by the time the caller sees them.
func IsRetryable(err error) bool { return errors.IsRetryable(err) }

// IsCircuitOpen reports whether err means the endpoint's breaker rejected
// the call without a network attempt.
func IsCircuitOpen(err error) bool { return errors.Is(err, errors.CircuitOpen) }

// IsTimeout reports whether err means an attempt exceeded its deadline.
func IsTimeout(err error) bool { return errors.Is(err, errors.Timeout) }

// IsRateLimited reports whether err corresponds to HTTP 429.
func IsRateLimited(err error) bool { return errors.Is(err, errors.RateLimited) }
