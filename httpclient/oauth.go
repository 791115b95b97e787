package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tokenFetchTimeout = 15 * time.Second

// TokenStatus classifies the outcome of applying an auth descriptor.
type TokenStatus int

const (
	// TokenNotRequired means the descriptor needed no token exchange.
	TokenNotRequired TokenStatus = iota
	// TokenAcquired means the client-credentials exchange succeeded.
	TokenAcquired
	// TokenFetchFailed means the exchange failed; the client is left
	// unauthenticated.
	TokenFetchFailed
)

// String returns the status name.
func (s TokenStatus) String() string {
	switch s {
	case TokenNotRequired:
		return "not_required"
	case TokenAcquired:
		return "acquired"
	case TokenFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// TokenOutcome reports what happened when an OAuth2 descriptor was applied.
// Token-fetch failure is not fatal: the executor proceeds unauthenticated
// and the caller sees it here (and later as a 401 from the endpoint).
type TokenOutcome struct {
	Status TokenStatus
	// Reason describes the failure when Status is TokenFetchFailed.
	Reason string
	// Err is the underlying error, if any.
	Err error
}

// Failed reports whether the token exchange failed.
func (o TokenOutcome) Failed() bool {
	return o.Status == TokenFetchFailed
}

// fetchToken performs the client-credentials exchange on a bare HTTP client:
// no default headers, no auth, no retries.
func fetchToken(ctx context.Context, auth *AuthConfig) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", auth.ClientID)
	form.Set("client_secret", auth.ClientSecret)
	if auth.Scope != "" {
		form.Set("scope", auth.Scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, auth.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	bare := &http.Client{Timeout: tokenFetchTimeout}
	resp, err := bare.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return payload.AccessToken, nil
}
