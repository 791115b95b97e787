package httpclient

import (
	"encoding/json"
	"net/http"
	"time"
)

// Result is the normalized outcome of one logical call. Every execution
// produces one; ordinary HTTP and network failures are carried in its
// fields rather than raised as errors.
type Result struct {
	// StatusCode is the HTTP status of the final attempt, or 500 when the
	// transport failed on every attempt.
	StatusCode int
	// Status is the reason phrase ("200 OK").
	Status string
	// Headers holds the response headers with repeated values preserved.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
	// Data is the best-effort JSON decode of Body. Nil when the body is
	// empty or does not parse; decode failure never fails the call.
	Data any
	// Elapsed is the wall time of the final attempt.
	Elapsed time.Duration
	// Attempts is the number of attempts issued, including the first.
	Attempts int
	// Err carries the terminal transport error when every attempt failed,
	// or the read error when the body could not be drained. A body that
	// does not parse as JSON is logged, not stored here. Nil otherwise.
	Err error
	// RequestID correlates the result with the executor's log events.
	RequestID string
}

// IsSuccess reports whether the status code is in [200, 299].
func (r *Result) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError reports whether the status code is 4xx or 5xx.
func (r *Result) IsError() bool {
	return r.StatusCode >= 400
}

// Into decodes the raw body into out.
func (r *Result) Into(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return &Error{Code: ErrCodeDecode, Message: err.Error(), Err: err}
	}
	return nil
}

// Header returns the first value of the named response header.
func (r *Result) Header(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}
