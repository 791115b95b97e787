package retry

import (
	"context"
	"testing"
	"time"
)

func TestDefaultPolicy_Statuses(t *testing.T) {
	p := DefaultPolicy()
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !p.RetryableStatus(code) {
			t.Errorf("expected %d to be retryable", code)
		}
	}
	for _, code := range []int{200, 201, 301, 400, 401, 404, 501} {
		if p.RetryableStatus(code) {
			t.Errorf("expected %d to not be retryable", code)
		}
	}
}

func TestBackoff_Exponential(t *testing.T) {
	p := Policy{Delay: 100 * time.Millisecond, Exponential: true}
	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	for i, w := range want {
		if got := p.Backoff(i + 1); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoff_Constant(t *testing.T) {
	p := Policy{Delay: 250 * time.Millisecond}
	for n := 1; n <= 4; n++ {
		if got := p.Backoff(n); got != 250*time.Millisecond {
			t.Errorf("Backoff(%d) = %v, want 250ms", n, got)
		}
	}
}

func TestBackoff_ClampsAttemptBelowOne(t *testing.T) {
	p := Policy{Delay: 100 * time.Millisecond, Exponential: true}
	if got := p.Backoff(0); got != 100*time.Millisecond {
		t.Errorf("Backoff(0) = %v, want 100ms", got)
	}
}

func TestValidate(t *testing.T) {
	if err := (Policy{MaxRetries: -1}).Validate(); err == nil {
		t.Error("expected error for negative max_retries")
	}
	if err := (Policy{MaxRetries: 1}).Validate(); err == nil {
		t.Error("expected error for zero delay with retries enabled")
	}
	if err := (Policy{MaxRetries: 0}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWait_Completes(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %v, expected at least 20ms", elapsed)
	}
}

func TestWait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Wait(ctx, time.Minute); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
