package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
)

// FromStatus classifies a non-2xx HTTP response.
//
//   - 5xx            -> ServerError, retryable
//   - 429            -> RateLimited, retryable
//   - 408            -> Timeout, retryable
//   - other 4xx      -> ClientError, not retryable
//
// message is normally taken from the backend's error envelope; pass "" to
// synthesize a generic one.
func FromStatus(operation string, status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("%s failed", operation)
	}
	e := &Error{Message: message, HTTPStatus: status}
	switch {
	case status >= 500 && status < 600:
		e.Kind, e.Retryable = ServerError, true
	case status == 429:
		e.Kind, e.Retryable = RateLimited, true
	case status == 408:
		e.Kind, e.Retryable = Timeout, true
	case status >= 400 && status < 500:
		e.Kind, e.Retryable = ClientError, false
	default:
		// Unexpected status outside 4xx/5xx. Be conservative and retry.
		e.Kind, e.Retryable = ServerError, true
	}
	return e
}

// FromTransport classifies a connection-level failure where no response was
// obtained. Deadline expiry maps to Timeout; everything else is a
// NetworkFailure. Both are retryable.
func FromTransport(operation string, err error) *Error {
	kind := NetworkFailure
	var netErr net.Error
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &netErr) && netErr.Timeout()) {
		kind = Timeout
	}
	return &Error{
		Kind:      kind,
		Message:   fmt.Sprintf("%s: %v", operation, err),
		Retryable: true,
		cause:     err,
	}
}

// NewParseFailure reports a response body that did not conform to the
// expected shape. Not retryable.
func NewParseFailure(operation string, err error) *Error {
	return &Error{
		Kind:    ParseFailure,
		Message: fmt.Sprintf("%s: malformed response: %v", operation, err),
		cause:   err,
	}
}

// NewCircuitOpen reports a call rejected by an open breaker before any
// network attempt. Not retryable.
func NewCircuitOpen(endpoint string) *Error {
	return &Error{
		Kind:    CircuitOpen,
		Message: fmt.Sprintf("%s: circuit open, request rejected", endpoint),
	}
}

// NewClientError reports input rejected before any network attempt.
func NewClientError(message string, cause error) *Error {
	return &Error{Kind: ClientError, Message: message, cause: cause}
}
