package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy configures retry behavior for the request executor.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// 0 disables retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// Delay is the base delay between attempts.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	// Exponential doubles the delay on every retry when true; otherwise the
	// delay is constant.
	Exponential bool `yaml:"exponential" mapstructure:"exponential"`
	// Statuses are the HTTP status codes treated as transient.
	Statuses []int `yaml:"statuses" mapstructure:"statuses"`
}

// DefaultPolicy returns the standard transient-failure policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  2,
		Delay:       500 * time.Millisecond,
		Exponential: true,
		Statuses:    []int{429, 500, 502, 503, 504},
	}
}

// Validate checks that the policy is well formed.
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return fmt.Errorf("retry: max_retries must be >= 0 (got %d)", p.MaxRetries)
	}
	if p.MaxRetries > 0 && p.Delay <= 0 {
		return fmt.Errorf("retry: delay must be positive when retries are enabled")
	}
	return nil
}

// RetryableStatus reports whether code is in the policy's transient set.
func (p Policy) RetryableStatus(code int) bool {
	for _, s := range p.Statuses {
		if s == code {
			return true
		}
	}
	return false
}

// Backoff returns the delay before retry n (n >= 1). With exponential
// backoff the delay is Delay * 2^(n-1); there is deliberately no jitter
// and no cap.
func (p Policy) Backoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if !p.Exponential {
		return p.Delay
	}
	return p.Delay << uint(n-1)
}

// Wait sleeps for d or until ctx is done, whichever comes first. Returns
// the context error on cancellation.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
