package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/probekit/probekit/retry"
)

const defaultTimeout = 30 * time.Second

// Config configures a request executor for one logical endpoint.
type Config struct {
	// BaseURL is the endpoint all request paths are resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout applies to each attempt individually, not to the whole retry
	// sequence. Worst-case wall time is (MaxRetries+1) * Timeout plus
	// backoff. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to every request. Shared mutable
	// state across concurrent calls; use the extraHeaders argument of
	// Execute for per-call overrides instead of mutating this map.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Auth is the endpoint's authentication descriptor. Nil means
	// unauthenticated.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Retry configures transient-failure retries. Nil disables retry.
	Retry *retry.Policy `yaml:"retry" mapstructure:"retry"`

	// Logging controls what the executor logs. Nil means requests and
	// responses are logged without headers or bodies.
	Logging *LogPolicy `yaml:"logging" mapstructure:"logging"`
}

// LogPolicy controls request/response log emission.
type LogPolicy struct {
	Requests  bool `yaml:"requests" mapstructure:"requests"`
	Responses bool `yaml:"responses" mapstructure:"responses"`
	Headers   bool `yaml:"headers" mapstructure:"headers"`
	Body      bool `yaml:"body" mapstructure:"body"`
}

// DefaultLogPolicy logs request and response lines without headers or bodies.
func DefaultLogPolicy() *LogPolicy {
	return &LogPolicy{Requests: true, Responses: true}
}

// ApplyDefaults fills in zero-value fields. A retry policy with no status
// set gets the standard transient set, so enabling retries never silently
// disables status-based retry.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logging == nil {
		c.Logging = DefaultLogPolicy()
	}
	if c.Retry != nil && len(c.Retry.Statuses) == 0 {
		c.Retry.Statuses = retry.DefaultPolicy().Statuses
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("httpclient: base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("httpclient: invalid base_url %q: %w", c.BaseURL, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration, suitable for building a
// one-off client with per-call overrides without touching the original.
func (c Config) Clone() Config {
	out := c
	if c.Headers != nil {
		out.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			out.Headers[k] = v
		}
	}
	if c.Auth != nil {
		auth := *c.Auth
		out.Auth = &auth
	}
	if c.Retry != nil {
		pol := *c.Retry
		pol.Statuses = append([]int(nil), c.Retry.Statuses...)
		out.Retry = &pol
	}
	if c.Logging != nil {
		lp := *c.Logging
		out.Logging = &lp
	}
	return out
}
