// Package report records executed calls and renders run summaries as
// JSON, CSV, or HTML.
//
// A Recorder is safe for concurrent use, so parallel test scenarios can
// share one.
package report
