package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/refiner/internal/model"
)

// JSONWriter writes reports as JSON for other tools to consume.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single document report in JSON format.
func (w *JSONWriter) Write(report *model.RefinementReport) (int, error) {
	return w.writeJSON(report)
}

// WriteSummary outputs the run summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON encodes v on one line, or indented when configured. HTML
// escaping is off so that source paths and URLs print as they are.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// JSONReport is the envelope FullJSONWriter emits: the run summary plus
// totals a consumer would otherwise have to recompute.
type JSONReport struct {
	Version      string            `json:"version"`
	Documents    int               `json:"documents"`
	Failed       int               `json:"failed"`
	TotalRecords int               `json:"total_records"`
	RecordCounts map[string]int    `json:"record_counts"`
	Summary      *model.RunSummary `json:"summary"`
}

// NewJSONReport builds the envelope for summary.
func NewJSONReport(summary *model.RunSummary, version string) *JSONReport {
	return &JSONReport{
		Version:      version,
		Documents:    len(summary.Reports),
		Failed:       failedCount(summary),
		TotalRecords: summary.TotalRecords(),
		RecordCounts: summary.RecordCounts(),
		Summary:      summary,
	}
}

// FullJSONWriter outputs complete reports with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the refiner version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs a single document report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.RefinementReport) (int, error) {
	return w.WriteSummary(single(report))
}

// WriteSummary outputs the run summary wrapped with metadata.
func (w *FullJSONWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	return w.writeJSON(NewJSONReport(summary, w.version))
}
