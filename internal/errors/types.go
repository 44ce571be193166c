// Package errors provides error classification for the client SDK.
// Every failure the SDK surfaces is exactly one *Error carrying a Kind and
// a retryable flag, so callers branch on Kind rather than message text.
package errors

import "fmt"

// Kind tags the failure class of an *Error.
type Kind int

const (
	// NetworkFailure means no HTTP response was obtained at all
	// (connection refused, DNS failure, reset mid-flight).
	NetworkFailure Kind = iota

	// Timeout means the attempt's deadline fired before a response landed,
	// or the backend answered 408.
	Timeout

	// RateLimited corresponds to HTTP 429.
	RateLimited

	// ServerError corresponds to HTTP 5xx.
	ServerError

	// ClientError corresponds to HTTP 4xx other than 408/429, and to
	// requests rejected by pre-flight validation.
	ClientError

	// ParseFailure means a response arrived but its body did not conform
	// to the expected shape. Retrying cannot fix a malformed payload.
	ParseFailure

	// CircuitOpen means the endpoint's breaker rejected the call before
	// any network attempt was made.
	CircuitOpen
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case Timeout:
		return "timeout"
	case RateLimited:
		return "rate_limited"
	case ServerError:
		return "server_error"
	case ClientError:
		return "client_error"
	case ParseFailure:
		return "parse_failure"
	case CircuitOpen:
		return "circuit_open"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the structured error value surfaced by the SDK. Immutable once
// created.
type Error struct {
	Kind          Kind
	Message       string
	HTTPStatus    int    // 0 when no response was obtained
	Retryable     bool
	CorrelationID string
	cause         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Kind, e.HTTPStatus, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error { return e.cause }

// WithCorrelation returns a copy of e carrying the given correlation id.
func (e *Error) WithCorrelation(id string) *Error {
	cp := *e
	cp.CorrelationID = id
	return &cp
}

// IsRetryable reports whether err is an *Error marked retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// KindOf returns the Kind of err, or (0, false) if err is not an *Error.
func KindOf(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
