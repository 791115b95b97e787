package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies executor errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a per-attempt timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a transport failure (DNS, refused, reset,
	// TLS).
	ErrCodeConnection
	// ErrCodeDecode indicates the response body could not be decoded.
	ErrCodeDecode
	// ErrCodeTokenFetch indicates the OAuth2 token exchange failed.
	ErrCodeTokenFetch
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeTokenFetch:
		return "token_fetch"
	default:
		return "unknown"
	}
}

// Error is a classified executor error. Transport-level errors are carried
// on the Result after retries are exhausted; they are never returned as an
// error from Execute.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient. Timeouts and
// connection failures are; decode and token-fetch failures are not.
func (e *Error) Retryable() bool {
	return e.Code == ErrCodeTimeout || e.Code == ErrCodeConnection
}

// classifyTransport wraps a transport-level send error.
func classifyTransport(err error) *Error {
	code := ErrCodeConnection
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		code = ErrCodeTimeout
	} else if errors.Is(err, context.DeadlineExceeded) {
		code = ErrCodeTimeout
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// IsTimeout checks whether err is a per-attempt timeout.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks whether err is a transport failure.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsDecode checks whether err is a body-decode failure.
func IsDecode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecode
}
