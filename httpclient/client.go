package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/probekit/probekit/logger"
	"github.com/probekit/probekit/retry"
	"github.com/probekit/probekit/version"
)

// Client executes logical HTTP calls against one configured endpoint.
//
// Default headers and authentication are shared mutable state across
// concurrent calls and are not synchronized. Callers needing per-call
// headers must pass them to Execute rather than mutating the defaults.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger

	// authHeader is the header name the active auth descriptor wrote into
	// the defaults, so a later SetAuth can remove it.
	authHeader string
	lastToken  TokenOutcome
}

// New creates a request executor. A nil log discards executor logging.
// If the config carries an OAuth2 descriptor the token exchange runs here;
// its failure is not an error from New (see SetAuth).
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg = cfg.Clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.WithComponent("httpclient"),
	}
	if cfg.Auth != nil {
		c.SetAuth(context.Background(), cfg.Auth)
	}
	return c, nil
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg.Clone()
}

// SetAuth replaces the client's authentication. The header written by the
// previous descriptor is removed first, so exactly one auth header is set
// at any time. For OAuth2 the client-credentials exchange happens here,
// once; on failure the client is left unauthenticated and the outcome says
// why; subsequent calls will simply go out without credentials.
func (c *Client) SetAuth(ctx context.Context, auth *AuthConfig) TokenOutcome {
	if c.authHeader != "" {
		delete(c.cfg.Headers, c.authHeader)
		c.authHeader = ""
	}
	outcome := TokenOutcome{Status: TokenNotRequired}
	if auth == nil {
		c.cfg.Auth = nil
		c.lastToken = outcome
		return outcome
	}

	switch auth.Type {
	case AuthAPIKey:
		c.cfg.Headers[auth.apiKeyHeader()] = auth.Key
		c.authHeader = auth.apiKeyHeader()
	case AuthBearer:
		c.cfg.Headers["Authorization"] = "Bearer " + auth.Token
		c.authHeader = "Authorization"
	case AuthBasic:
		c.cfg.Headers["Authorization"] = "Basic " + basicCredentials(auth.Username, auth.Password)
		c.authHeader = "Authorization"
	case AuthOAuth2:
		token, err := fetchToken(ctx, auth)
		if err != nil {
			werr := &Error{Code: ErrCodeTokenFetch, Message: err.Error(), Err: err}
			c.log.Error("oauth2 token fetch failed", logger.Fields(
				logger.FieldURL, auth.TokenURL,
				logger.FieldError, werr.Error(),
			))
			outcome = TokenOutcome{Status: TokenFetchFailed, Reason: err.Error(), Err: werr}
			break
		}
		c.cfg.Headers["Authorization"] = "Bearer " + token
		c.authHeader = "Authorization"
		outcome = TokenOutcome{Status: TokenAcquired}
	}

	c.cfg.Auth = auth
	c.lastToken = outcome
	return outcome
}

// LastTokenOutcome returns the outcome of the most recent SetAuth.
func (c *Client) LastTokenOutcome() TokenOutcome {
	return c.lastToken
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, extraHeaders map[string]string) (*Result, error) {
	return c.Execute(ctx, http.MethodGet, path, nil, extraHeaders)
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, extraHeaders map[string]string) (*Result, error) {
	return c.Execute(ctx, http.MethodPost, path, body, extraHeaders)
}

// Put executes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, extraHeaders map[string]string) (*Result, error) {
	return c.Execute(ctx, http.MethodPut, path, body, extraHeaders)
}

// Patch executes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, extraHeaders map[string]string) (*Result, error) {
	return c.Execute(ctx, http.MethodPatch, path, body, extraHeaders)
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, extraHeaders map[string]string) (*Result, error) {
	return c.Execute(ctx, http.MethodDelete, path, nil, extraHeaders)
}

// Execute runs the dispatch loop for one logical call: build, send, retry
// transient outcomes per policy, materialize the last attempt.
//
// It never returns an error for HTTP or network failures: after retries
// are exhausted the Result carries a 500 and the last transport error. The
// error return is reserved for context cancellation and unusable input.
func (c *Client) Execute(ctx context.Context, method, path string, body any, extraHeaders map[string]string) (*Result, error) {
	if method == "" {
		return nil, fmt.Errorf("httpclient: method is required")
	}

	requestID := uuid.NewString()
	ctx, span := startCallSpan(ctx, method, path, requestID)
	defer span.End()

	maxRetries := 0
	if c.cfg.Retry != nil {
		maxRetries = c.cfg.Retry.MaxRetries
	}

	attempt := 0
	for {
		req, payload, err := c.buildRequest(ctx, method, path, body, extraHeaders)
		if err != nil {
			return nil, err
		}

		c.logRequest(requestID, attempt+1, req, payload)

		start := time.Now()
		resp, sendErr := c.httpClient.Do(req)
		elapsed := time.Since(start)

		if sendErr != nil {
			if ctx.Err() != nil {
				recordCancellation(span, ctx.Err())
				return nil, ctx.Err()
			}
			terr := classifyTransport(sendErr)
			recordAttemptError(span, attempt+1, terr)

			if attempt < maxRetries {
				backoff := c.cfg.Retry.Backoff(attempt + 1)
				c.log.Warn("request failed, retrying", logger.Fields(
					logger.FieldRequestID, requestID,
					logger.FieldAttempt, attempt+1,
					logger.FieldError, terr.Error(),
					"backoff_ms", backoff.Milliseconds(),
				))
				if werr := retry.Wait(ctx, backoff); werr != nil {
					recordCancellation(span, werr)
					return nil, werr
				}
				attempt++
				continue
			}

			res := &Result{
				StatusCode: http.StatusInternalServerError,
				Status:     fmt.Sprintf("%d %s", http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)),
				Elapsed:    elapsed,
				Attempts:   attempt + 1,
				Err:        terr,
				RequestID:  requestID,
			}
			c.logFailure(requestID, res)
			recordTerminalError(span, terr)
			return res, nil
		}

		res := c.materialize(resp, elapsed, attempt+1, requestID)
		c.logResponse(requestID, res)
		recordAttemptStatus(span, attempt+1, res.StatusCode)

		if attempt < maxRetries && c.cfg.Retry.RetryableStatus(res.StatusCode) {
			backoff := c.cfg.Retry.Backoff(attempt + 1)
			c.log.Warn("retryable status, retrying", logger.Fields(
				logger.FieldRequestID, requestID,
				logger.FieldAttempt, attempt+1,
				logger.FieldStatus, res.StatusCode,
				"backoff_ms", backoff.Milliseconds(),
			))
			if werr := retry.Wait(ctx, backoff); werr != nil {
				recordCancellation(span, werr)
				return nil, werr
			}
			attempt++
			continue
		}

		return res, nil
	}
}

// methodCarriesBody reports whether a payload is attached for the verb.
func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// buildRequest constructs the wire request for one attempt. The serialized
// payload is returned alongside for logging.
func (c *Client) buildRequest(ctx context.Context, method, path string, body any, extraHeaders map[string]string) (*http.Request, []byte, error) {
	target := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")

	var payload []byte
	if body != nil && methodCarriesBody(method) {
		var err error
		payload, err = encodeBody(body)
		if err != nil {
			return nil, nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("httpclient: build request: %w", err)
	}

	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	// Per-call headers win on key collision.
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", version.UserAgent())
	}

	return req, payload, nil
}

// encodeBody serializes the request payload as JSON. Pre-encoded bytes pass
// through untouched.
func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

// materialize turns a wire response into a Result. The body is read fully
// and decoded best-effort; a decode failure is logged and leaves Data nil.
func (c *Client) materialize(resp *http.Response, elapsed time.Duration, attempts int, requestID string) *Result {
	defer func() { _ = resp.Body.Close() }()

	res := &Result{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Header,
		Elapsed:    elapsed,
		Attempts:   attempts,
		RequestID:  requestID,
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = classifyTransport(err)
		return res
	}
	res.Body = body

	if len(body) > 0 {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			res.Data = data
		} else if strings.Contains(resp.Header.Get("Content-Type"), "json") {
			c.log.Warn("response body decode failed", logger.Fields(
				logger.FieldRequestID, requestID,
				logger.FieldStatus, res.StatusCode,
				logger.FieldError, err.Error(),
			))
		}
	}

	return res
}

// sensitiveHeaders are never logged verbatim.
var sensitiveHeaders = map[string]struct{}{
	"Authorization":       {},
	"Proxy-Authorization": {},
	"Cookie":              {},
	"Set-Cookie":          {},
	DefaultAPIKeyHeader:   {},
}

// redactHeaders returns a copy of h with credential-carrying values masked,
// including whatever header the active auth scheme writes to.
func (c *Client) redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		canonical := http.CanonicalHeaderKey(name)
		_, sensitive := sensitiveHeaders[canonical]
		if sensitive || (c.authHeader != "" && canonical == http.CanonicalHeaderKey(c.authHeader)) {
			out[name] = []string{"[redacted]"}
			continue
		}
		out[name] = values
	}
	return out
}

func (c *Client) logRequest(requestID string, attempt int, req *http.Request, payload []byte) {
	if !c.cfg.Logging.Requests {
		return
	}
	fields := logger.Fields(
		logger.FieldRequestID, requestID,
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL.String(),
		logger.FieldAttempt, attempt,
	)
	if c.cfg.Logging.Headers {
		fields[logger.FieldHeaders] = c.redactHeaders(req.Header)
	}
	if c.cfg.Logging.Body && payload != nil {
		fields[logger.FieldBody] = string(payload)
	}
	c.log.Info("request issued", fields)
}

func (c *Client) logResponse(requestID string, res *Result) {
	if !c.cfg.Logging.Responses {
		return
	}
	fields := logger.Fields(
		logger.FieldRequestID, requestID,
		logger.FieldStatus, res.StatusCode,
		logger.FieldDuration, res.Elapsed.Milliseconds(),
		logger.FieldAttempt, res.Attempts,
	)
	if c.cfg.Logging.Headers {
		fields[logger.FieldHeaders] = c.redactHeaders(res.Headers)
	}
	if c.cfg.Logging.Body {
		fields[logger.FieldBody] = string(res.Body)
	}
	c.log.Info("response received", fields)
}

func (c *Client) logFailure(requestID string, res *Result) {
	if !c.cfg.Logging.Responses {
		return
	}
	c.log.Error("request failed", logger.Fields(
		logger.FieldRequestID, requestID,
		logger.FieldAttempt, res.Attempts,
		logger.FieldDuration, res.Elapsed.Milliseconds(),
		logger.FieldError, res.Err.Error(),
	))
}
