package report

import (
	"sync"
	"time"

	"github.com/probekit/probekit/httpclient"
)

// Call is one recorded request execution.
type Call struct {
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Attempts  int    `json:"attempts"`
	Passed    bool   `json:"passed"`
	Failure   string `json:"failure,omitempty"`
	// CompletedAt is when the call was recorded. The call's true start is
	// not recoverable from a Result, whose Elapsed covers only the final
	// attempt.
	CompletedAt time.Time `json:"completed_at"`
}

// Summary aggregates a run.
type Summary struct {
	Suite        string        `json:"suite"`
	Total        int           `json:"total"`
	Passed       int           `json:"passed"`
	Failed       int           `json:"failed"`
	AvgElapsedMS int64         `json:"avg_elapsed_ms"`
	Duration     time.Duration `json:"duration"`
}

// Recorder collects call records for one suite run.
type Recorder struct {
	mu      sync.Mutex
	suite   string
	started time.Time
	calls   []Call
}

// NewRecorder creates a recorder for the named suite.
func NewRecorder(suite string) *Recorder {
	return &Recorder{suite: suite, started: time.Now()}
}

// Record adds one executed call. checkErr is the assertion outcome for the
// call; nil means the call passed. A nil result (cancelled call) is
// recorded with no status.
func (r *Recorder) Record(method, path string, res *httpclient.Result, checkErr error) {
	call := Call{
		Method:      method,
		Path:        path,
		Passed:      checkErr == nil,
		CompletedAt: time.Now(),
	}
	if checkErr != nil {
		call.Failure = checkErr.Error()
	}
	if res != nil {
		call.RequestID = res.RequestID
		call.Status = res.StatusCode
		call.ElapsedMS = res.Elapsed.Milliseconds()
		call.Attempts = res.Attempts
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Summary aggregates the run so far.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Suite:    r.suite,
		Total:    len(r.calls),
		Duration: time.Since(r.started),
	}
	var totalMS int64
	for _, c := range r.calls {
		if c.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		totalMS += c.ElapsedMS
	}
	if s.Total > 0 {
		s.AvgElapsedMS = totalMS / int64(s.Total)
	}
	return s
}
