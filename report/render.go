package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/flosch/pongo2/v6"
)

// WriteJSON renders the run as a JSON document.
func (r *Recorder) WriteJSON(w io.Writer) error {
	doc := struct {
		Summary Summary `json:"summary"`
		Calls   []Call  `json:"calls"`
	}{
		Summary: r.Summary(),
		Calls:   r.Calls(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteCSV renders the recorded calls as CSV, one row per call.
func (r *Recorder) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"request_id", "method", "path", "status", "elapsed_ms", "attempts", "passed", "failure"}); err != nil {
		return err
	}
	for _, c := range r.Calls() {
		row := []string{
			c.RequestID,
			c.Method,
			c.Path,
			strconv.Itoa(c.Status),
			strconv.FormatInt(c.ElapsedMS, 10),
			strconv.Itoa(c.Attempts),
			strconv.FormatBool(c.Passed),
			c.Failure,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ summary.Suite }} run report</title>
  <style>
    body { font-family: sans-serif; margin: 2em; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
    .pass { color: #2e7d32; }
    .fail { color: #c62828; }
  </style>
</head>
<body>
  <h1>{{ summary.Suite }}</h1>
  <p>{{ summary.Passed }} passed, {{ summary.Failed }} failed of {{ summary.Total }} calls
     (avg {{ summary.AvgElapsedMS }} ms)</p>
  <table>
    <tr><th>Method</th><th>Path</th><th>Status</th><th>Elapsed (ms)</th><th>Attempts</th><th>Outcome</th><th>Failure</th></tr>
    {% for c in calls %}
    <tr>
      <td>{{ c.Method }}</td>
      <td>{{ c.Path }}</td>
      <td>{{ c.Status }}</td>
      <td>{{ c.ElapsedMS }}</td>
      <td>{{ c.Attempts }}</td>
      {% if c.Passed %}<td class="pass">pass</td>{% else %}<td class="fail">fail</td>{% endif %}
      <td>{{ c.Failure }}</td>
    </tr>
    {% endfor %}
  </table>
</body>
</html>
`))

// WriteHTML renders the run as a standalone HTML page.
func (r *Recorder) WriteHTML(w io.Writer) error {
	err := htmlTemplate.ExecuteWriter(pongo2.Context{
		"summary": r.Summary(),
		"calls":   r.Calls(),
	}, w)
	if err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}
