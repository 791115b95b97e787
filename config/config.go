package config

import (
	"fmt"
	"os"
	"time"

	"github.com/probekit/probekit/httpclient"
	"github.com/probekit/probekit/logger"
	"github.com/probekit/probekit/retry"
	"github.com/probekit/probekit/validation"
)

// Suite is a loaded harness configuration file.
type Suite struct {
	// Name identifies the suite in logs and reports.
	Name string `mapstructure:"suite"`
	// Logging configures the harness logger.
	Logging logger.Config `mapstructure:"logging"`
	// Endpoints are the named endpoint profiles.
	Endpoints map[string]EndpointProfile `mapstructure:"endpoints"`
}

// EndpointProfile is the file-side shape of one endpoint configuration.
type EndpointProfile struct {
	BaseURL string                `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration         `mapstructure:"timeout"`
	Headers map[string]string     `mapstructure:"headers"`
	Auth    AuthSpec              `mapstructure:"auth"`
	Retry   *RetrySpec            `mapstructure:"retry"`
	Logging *httpclient.LogPolicy `mapstructure:"logging"`
}

// AuthSpec is the file-side shape of an authentication descriptor.
// Credential fields may reference environment variables as ${VAR}.
type AuthSpec struct {
	Type         string `mapstructure:"type" validate:"omitempty,oneof=none api_key bearer basic oauth2"`
	Header       string `mapstructure:"header"`
	Key          string `mapstructure:"key"`
	Token        string `mapstructure:"token"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenURL     string `mapstructure:"token_url"`
	Scope        string `mapstructure:"scope"`
}

// RetrySpec is the file-side shape of a retry policy.
type RetrySpec struct {
	MaxRetries  int           `mapstructure:"max_retries" validate:"gte=0"`
	Delay       time.Duration `mapstructure:"delay"`
	Exponential bool          `mapstructure:"exponential"`
	Statuses    []int         `mapstructure:"statuses"`
}

// ClientConfig converts a profile into an executor configuration.
func (p EndpointProfile) ClientConfig() (httpclient.Config, error) {
	if err := validation.Validate(p); err != nil {
		return httpclient.Config{}, err
	}

	cfg := httpclient.Config{
		BaseURL: p.BaseURL,
		Timeout: p.Timeout,
		Headers: p.Headers,
		Logging: p.Logging,
	}

	auth, err := p.Auth.descriptor()
	if err != nil {
		return httpclient.Config{}, err
	}
	cfg.Auth = auth

	if p.Retry != nil {
		pol := retry.Policy{
			MaxRetries:  p.Retry.MaxRetries,
			Delay:       p.Retry.Delay,
			Exponential: p.Retry.Exponential,
			Statuses:    p.Retry.Statuses,
		}
		if len(pol.Statuses) == 0 {
			pol.Statuses = retry.DefaultPolicy().Statuses
		}
		cfg.Retry = &pol
	}

	return cfg, nil
}

// descriptor converts the file-side auth shape into an httpclient.AuthConfig, expanding
// ${VAR} references in credentials.
func (a AuthSpec) descriptor() (*httpclient.AuthConfig, error) {
	switch a.Type {
	case "", "none":
		return nil, nil
	case "api_key":
		if a.Header != "" {
			return httpclient.APIKeyAuthHeader(os.ExpandEnv(a.Key), a.Header), nil
		}
		return httpclient.APIKeyAuth(os.ExpandEnv(a.Key)), nil
	case "bearer":
		return httpclient.BearerAuth(os.ExpandEnv(a.Token)), nil
	case "basic":
		return httpclient.BasicAuth(os.ExpandEnv(a.Username), os.ExpandEnv(a.Password)), nil
	case "oauth2":
		return httpclient.OAuth2Auth(
			os.ExpandEnv(a.ClientID),
			os.ExpandEnv(a.ClientSecret),
			a.TokenURL,
			a.Scope,
		), nil
	default:
		return nil, fmt.Errorf("config: unknown auth type %q", a.Type)
	}
}

// Profile returns the named endpoint profile as an executor configuration.
func (s *Suite) Profile(name string) (httpclient.Config, error) {
	p, ok := s.Endpoints[name]
	if !ok {
		return httpclient.Config{}, fmt.Errorf("config: no endpoint profile %q", name)
	}
	return p.ClientConfig()
}
