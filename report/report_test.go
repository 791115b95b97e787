package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/probekit/probekit/httpclient"
)

func sampleCall(status int, elapsed time.Duration) *httpclient.Result {
	return &httpclient.Result{
		StatusCode: status,
		Elapsed:    elapsed,
		Attempts:   1,
		RequestID:  "req-1",
	}
}

func TestRecorder_Summary(t *testing.T) {
	r := NewRecorder("orders")
	r.Record("GET", "/orders", sampleCall(200, 10*time.Millisecond), nil)
	r.Record("POST", "/orders", sampleCall(201, 30*time.Millisecond), nil)
	r.Record("GET", "/orders/9", sampleCall(404, 20*time.Millisecond), errors.New("status: want 200, got 404"))

	s := r.Summary()
	if s.Suite != "orders" {
		t.Errorf("expected suite orders, got %q", s.Suite)
	}
	if s.Total != 3 || s.Passed != 2 || s.Failed != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.AvgElapsedMS != 20 {
		t.Errorf("expected avg 20ms, got %d", s.AvgElapsedMS)
	}
}

func TestRecorder_CompletedAt(t *testing.T) {
	// A retried call's Elapsed covers only the final attempt, so the
	// timestamp must be the record time, never backdated by Elapsed.
	r := NewRecorder("orders")
	before := time.Now()
	r.Record("GET", "/orders", sampleCall(200, time.Minute), nil)
	after := time.Now()

	c := r.Calls()[0]
	if c.CompletedAt.Before(before) || c.CompletedAt.After(after) {
		t.Errorf("CompletedAt %v outside [%v, %v]", c.CompletedAt, before, after)
	}
}

func TestRecorder_NilResult(t *testing.T) {
	r := NewRecorder("orders")
	r.Record("GET", "/slow", nil, errors.New("cancelled"))

	calls := r.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Status != 0 || calls[0].Passed {
		t.Errorf("unexpected record: %+v", calls[0])
	}
}

func TestRecorder_ConcurrentRecord(t *testing.T) {
	r := NewRecorder("parallel")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("GET", "/x", sampleCall(200, time.Millisecond), nil)
		}()
	}
	wg.Wait()
	if got := r.Summary().Total; got != 50 {
		t.Errorf("expected 50 calls, got %d", got)
	}
}

func TestWriteJSON(t *testing.T) {
	r := NewRecorder("orders")
	r.Record("GET", "/orders", sampleCall(200, 10*time.Millisecond), nil)

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Summary Summary `json:"summary"`
		Calls   []Call  `json:"calls"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Summary.Total != 1 || len(doc.Calls) != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestWriteCSV(t *testing.T) {
	r := NewRecorder("orders")
	r.Record("GET", "/orders", sampleCall(200, 10*time.Millisecond), nil)
	r.Record("DELETE", "/orders/1", sampleCall(500, 5*time.Millisecond), errors.New("boom"))

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "request_id" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][6] != "false" || rows[2][7] != "boom" {
		t.Errorf("unexpected failure row: %v", rows[2])
	}
}

func TestWriteHTML(t *testing.T) {
	r := NewRecorder("orders")
	r.Record("GET", "/orders", sampleCall(200, 10*time.Millisecond), nil)
	r.Record("GET", "/orders/9", sampleCall(404, 2*time.Millisecond), errors.New("not found"))

	var buf bytes.Buffer
	if err := r.WriteHTML(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<title>orders", "/orders/9", `class="fail"`, `class="pass"`} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in rendered HTML", want)
		}
	}
}
