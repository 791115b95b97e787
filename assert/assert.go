package assert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/probekit/probekit/httpclient"
)

// Check is an in-progress assertion chain over one result.
type Check struct {
	res      *httpclient.Result
	failures []string
}

// That starts an assertion chain.
func That(res *httpclient.Result) *Check {
	c := &Check{res: res}
	if res == nil {
		c.failf("result is nil")
	}
	return c
}

func (c *Check) failf(format string, args ...any) *Check {
	c.failures = append(c.failures, fmt.Sprintf(format, args...))
	return c
}

// Status asserts the exact status code.
func (c *Check) Status(want int) *Check {
	if c.res == nil {
		return c
	}
	if c.res.StatusCode != want {
		return c.failf("status: want %d, got %d", want, c.res.StatusCode)
	}
	return c
}

// Success asserts a 2xx status.
func (c *Check) Success() *Check {
	if c.res == nil {
		return c
	}
	if !c.res.IsSuccess() {
		return c.failf("success: got status %d", c.res.StatusCode)
	}
	return c
}

// NoTransportError asserts the result carries no terminal transport error.
func (c *Check) NoTransportError() *Check {
	if c.res == nil {
		return c
	}
	if c.res.Err != nil {
		return c.failf("transport: unexpected error %v", c.res.Err)
	}
	return c
}

// HeaderEquals asserts the first value of a response header.
func (c *Check) HeaderEquals(name, want string) *Check {
	if c.res == nil {
		return c
	}
	if got := c.res.Header(name); got != want {
		return c.failf("header %s: want %q, got %q", name, want, got)
	}
	return c
}

// HeaderPresent asserts a response header exists.
func (c *Check) HeaderPresent(name string) *Check {
	if c.res == nil {
		return c
	}
	if c.res.Header(name) == "" {
		return c.failf("header %s: missing", name)
	}
	return c
}

// BodyContains asserts the raw body contains a substring.
func (c *Check) BodyContains(want string) *Check {
	if c.res == nil {
		return c
	}
	if !strings.Contains(string(c.res.Body), want) {
		return c.failf("body: does not contain %q", want)
	}
	return c
}

// JSONField asserts a field of the decoded body. The path is dot-separated;
// values are compared by their string form, so numeric JSON fields match
// both "3" and 3.
func (c *Check) JSONField(path string, want any) *Check {
	if c.res == nil {
		return c
	}
	got, err := lookup(c.res.Data, path)
	if err != nil {
		return c.failf("json %s: %v", path, err)
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		return c.failf("json %s: want %v, got %v", path, want, got)
	}
	return c
}

// ElapsedUnder asserts the final attempt finished within the limit.
func (c *Check) ElapsedUnder(limit int) *Check {
	if c.res == nil {
		return c
	}
	if ms := c.res.Elapsed.Milliseconds(); ms > int64(limit) {
		return c.failf("elapsed: %dms exceeds %dms", ms, limit)
	}
	return c
}

// Failed reports whether any check in the chain failed.
func (c *Check) Failed() bool {
	return len(c.failures) > 0
}

// Failures returns every collected failure message.
func (c *Check) Failures() []string {
	return c.failures
}

// Err returns nil when all checks passed, or one error naming every
// failure.
func (c *Check) Err() error {
	if len(c.failures) == 0 {
		return nil
	}
	return errors.New("assert: " + strings.Join(c.failures, "; "))
}

// lookup walks a decoded JSON value by dot-separated path.
func lookup(data any, path string) (any, error) {
	if data == nil {
		return nil, fmt.Errorf("body was not decoded")
	}
	current := data
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not an object", part)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found", part)
		}
	}
	return current, nil
}
