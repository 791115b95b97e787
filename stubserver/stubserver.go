package stubserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/probekit/probekit/token"
)

// Response is one scripted stub response.
type Response struct {
	Status  int
	Body    any
	Headers map[string]string
}

// Respond builds a stub response.
func Respond(status int, body any) Response {
	return Response{Status: status, Body: body}
}

// CapturedRequest is a request the stub received.
type CapturedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Server is a scripted stub API backed by gin.
type Server struct {
	engine *gin.Engine
	srv    *httptest.Server

	mu       sync.Mutex
	captured []CapturedRequest
}

// New starts a stub server. Declare stubs before issuing requests against
// it; Close releases the listener.
func New() *Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	s := &Server{engine: engine}
	engine.Use(s.captureMiddleware())
	s.srv = httptest.NewServer(engine)
	return s
}

// URL returns the stub's base URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the stub down.
func (s *Server) Close() {
	s.srv.Close()
}

// RequireBearer rejects requests without a valid bearer token minted by
// signer. Call before declaring stubs.
func (s *Server) RequireBearer(signer *token.Signer) {
	s.engine.Use(func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if _, err := signer.Parse(raw); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	})
}

// Stub declares a route with a fixed response.
func (s *Server) Stub(method, path string, resp Response) {
	s.engine.Handle(method, path, func(c *gin.Context) {
		writeResponse(c, resp)
	})
}

// StubSequence declares a route that walks through responses one call at a
// time. Once the script is exhausted the last response repeats.
func (s *Server) StubSequence(method, path string, responses ...Response) {
	var calls int64
	s.engine.Handle(method, path, func(c *gin.Context) {
		n := atomic.AddInt64(&calls, 1)
		idx := int(n) - 1
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		writeResponse(c, responses[idx])
	})
}

func writeResponse(c *gin.Context, resp Response) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	switch body := resp.Body.(type) {
	case nil:
		c.Status(resp.Status)
	case string:
		c.String(resp.Status, body)
	case []byte:
		c.Data(resp.Status, "application/json", body)
	default:
		c.JSON(resp.Status, body)
	}
}

// captureMiddleware records every request before routing.
func (s *Server) captureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		s.mu.Lock()
		s.captured = append(s.captured, CapturedRequest{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Headers: c.Request.Header.Clone(),
			Body:    body,
		})
		s.mu.Unlock()
		c.Next()
	}
}

// Captured returns a copy of every request received so far.
func (s *Server) Captured() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.captured))
	copy(out, s.captured)
	return out
}

// CallCount returns how many requests matched a method and path.
func (s *Server) CallCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.captured {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent captured request, or nil.
func (s *Server) LastRequest() *CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.captured) == 0 {
		return nil
	}
	last := s.captured[len(s.captured)-1]
	return &last
}
