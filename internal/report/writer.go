package report

import (
	"io"

	"github.com/nao1215/refiner/internal/model"
)

// Writer defines the interface for report output.
// Implementations write refinement results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs the report of a single document.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RefinementReport) (int, error)

	// WriteSummary outputs the report of a whole run, including what was
	// published.
	WriteSummary(summary *model.RunSummary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.RefinementReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the run summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// single wraps one report in a summary so every writer has one code path.
func single(report *model.RefinementReport) *model.RunSummary {
	return model.NewRunSummary([]*model.RefinementReport{report})
}

// status returns a short status label for a report.
func status(report *model.RefinementReport) string {
	if report.Failed() || report.ErrorMessage != "" {
		return "FAILED"
	}
	if report.CompletedAt.IsZero() {
		return "PENDING"
	}
	return "COMPLETE"
}

// errorText returns the error message of a failed report.
func errorText(report *model.RefinementReport) string {
	if report.ErrorMessage != "" {
		return report.ErrorMessage
	}
	if report.Error != nil {
		return report.Error.Error()
	}
	return ""
}
