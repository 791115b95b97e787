package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/probekit/probekit/logger"
	"github.com/probekit/probekit/retry"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestExecute_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/orders/42" {
			t.Errorf("expected /orders/42, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "42"})
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Get(context.Background(), "/orders/42", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}
	if !res.IsSuccess() {
		t.Error("expected IsSuccess=true")
	}
	if res.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", res.Attempts)
	}
	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected decoded map, got %T", res.Data)
	}
	if data["id"] != "42" {
		t.Errorf("expected id=42, got %v", data["id"])
	}
	if res.RequestID == "" {
		t.Error("expected a request id")
	}
}

func TestExecute_POST_SerializesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "widget" {
			t.Errorf("expected name=widget, got %v", body["name"])
		}
		w.WriteHeader(201)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Post(context.Background(), "/items", map[string]string{"name": "widget"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 201 {
		t.Errorf("expected 201, got %d", res.StatusCode)
	}
}

func TestExecute_BodyDroppedForGET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			t.Errorf("expected no body on GET, got %d bytes", r.ContentLength)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	if _, err := c.Execute(context.Background(), http.MethodGet, "/", map[string]string{"x": "y"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_HeaderMerge_ExtraWins(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"X-Tenant": "default", "X-Suite": "orders"},
	})

	extra := map[string]string{"X-Tenant": "acme"}
	if _, err := c.Get(context.Background(), "/", extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := got.Clone()

	if _, err := c.Get(context.Background(), "/", extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Get("X-Tenant") != "acme" {
		t.Errorf("expected extra header to win, got %q", got.Get("X-Tenant"))
	}
	if got.Get("X-Suite") != "orders" {
		t.Errorf("expected default header to survive, got %q", got.Get("X-Suite"))
	}
	// Same inputs, same outgoing header set.
	for _, k := range []string{"X-Tenant", "X-Suite"} {
		if first.Get(k) != got.Get(k) {
			t.Errorf("header %s differs between identical calls: %q vs %q", k, first.Get(k), got.Get(k))
		}
	}
}

func TestExecute_RetryableStatus_ThenSuccess(t *testing.T) {
	// 503, 503, 200 with maxRetries=2: expect the 200 after backoffs of
	// 100ms then 200ms.
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry: &retry.Policy{
			MaxRetries:  2,
			Delay:       100 * time.Millisecond,
			Exponential: true,
			Statuses:    []int{503},
		},
	})

	start := time.Now()
	res, err := c.Get(context.Background(), "/", nil)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 {
		t.Errorf("expected 200, got %d", res.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if res.Attempts != 3 {
		t.Errorf("expected Attempts=3, got %d", res.Attempts)
	}
	if elapsed < 300*time.Millisecond {
		t.Errorf("expected at least 300ms of backoff, finished in %v", elapsed)
	}
}

func TestExecute_RetryableStatus_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(503)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry:   &retry.Policy{MaxRetries: 2, Delay: 10 * time.Millisecond, Statuses: []int{503}},
	})

	res, err := c.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected exactly maxRetries+1=3 attempts, got %d", got)
	}
	if res.StatusCode != 503 {
		t.Errorf("expected last result's 503, got %d", res.StatusCode)
	}
	if res.Err != nil {
		t.Errorf("an HTTP-level failure is not an executor error, got %v", res.Err)
	}
}

func TestExecute_RetryDefaultStatuses(t *testing.T) {
	// A policy with no status set retries the standard transient codes.
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(503)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry:   &retry.Policy{MaxRetries: 2, Delay: 5 * time.Millisecond},
	})

	res, err := c.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts with the default retryable set, got %d", got)
	}
	if res.Attempts != 3 {
		t.Errorf("expected Attempts=3, got %d", res.Attempts)
	}
}

func TestExecute_NonRetryableStatus_SingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(404)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry:   &retry.Policy{MaxRetries: 3, Delay: 10 * time.Millisecond, Statuses: []int{503}},
	})

	res, err := c.Get(context.Background(), "/missing", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}
	if res.StatusCode != 404 {
		t.Errorf("expected 404, got %d", res.StatusCode)
	}
}

func TestExecute_TransportFailure_ReturnsResultNotError(t *testing.T) {
	// Connection refused on every attempt with maxRetries=1: two attempts,
	// a 500 result with the last error attached, no error return.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, Config{
		BaseURL: url,
		Retry:   &retry.Policy{MaxRetries: 1, Delay: 10 * time.Millisecond, Statuses: []int{503}},
	})

	res, err := c.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("transport failure must not be an error return, got %v", err)
	}
	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected synthetic 500, got %d", res.StatusCode)
	}
	if res.Attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", res.Attempts)
	}
	if res.Err == nil {
		t.Fatal("expected the last transport error on the result")
	}
	if !IsConnection(res.Err) {
		t.Errorf("expected a connection-classified error, got %v", res.Err)
	}
	if res.Elapsed <= 0 {
		t.Error("expected elapsed time of the final attempt")
	}
}

func TestExecute_Cancellation_MidFlight(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry:   &retry.Policy{MaxRetries: 3, Delay: 10 * time.Millisecond, Statuses: []int{503}},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	res, err := c.Get(ctx, "/slow", nil)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got res=%v err=%v", res, err)
	}
}

func TestExecute_Cancellation_DuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Retry:   &retry.Policy{MaxRetries: 2, Delay: 10 * time.Second, Statuses: []int{503}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Get(ctx, "/", nil)
	if err != context.DeadlineExceeded {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not interrupt the backoff sleep")
	}
}

func TestExecute_DecodeFailure_NotEscalated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Data != nil {
		t.Errorf("expected Data to stay nil, got %v", res.Data)
	}
	if string(res.Body) != "{not json" {
		t.Errorf("raw body must survive decode failure, got %q", res.Body)
	}
	if !res.IsSuccess() {
		t.Error("success must reflect the HTTP status only")
	}
}

func TestExecute_RepeatedResponseHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, Config{BaseURL: srv.URL})
	res, err := c.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Headers.Values("Set-Cookie"); len(got) != 2 {
		t.Errorf("expected both Set-Cookie values, got %v", got)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("expected error for missing base_url")
	}
	if _, err := New(Config{BaseURL: "http://x", Retry: &retry.Policy{MaxRetries: -1}}, nil); err == nil {
		t.Error("expected error for invalid retry policy")
	}
}

func TestExecute_EmptyMethod(t *testing.T) {
	c := newTestClient(t, Config{BaseURL: "http://localhost:1"})
	if _, err := c.Execute(context.Background(), "", "/", nil, nil); err == nil {
		t.Error("expected error for empty method")
	}
}

func TestLogging_RedactsCredentialHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	cfg := Config{
		BaseURL: srv.URL,
		Auth:    BearerAuth("top-secret"),
		Logging: &LogPolicy{Requests: true, Headers: true},
	}
	c, err := New(cfg, logger.NewWriter(&buf, "test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "top-secret") {
		t.Errorf("token leaked into log output: %s", out)
	}
	if !strings.Contains(out, "[redacted]") {
		t.Errorf("expected redaction marker in log output: %s", out)
	}
}
