// Package retry defines the retry policy applied by the request executor.
//
// A Policy names the transient HTTP status codes worth another attempt and
// how long to wait between attempts. Backoff is either constant or
// exponential doubling with no jitter and no cap; under repeated 5xx with a
// high retry count the waits grow unbounded, so keep MaxRetries small.
package retry
