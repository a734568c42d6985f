package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/refiner/internal/model"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and is easy to pipe to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether tables with no records are listed.
	showEmpty bool

	// verbose adds the content hashes and performed steps.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list tables without records.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single document report in human-readable format.
func (w *SimpleWriter) Write(report *model.RefinementReport) (int, error) {
	return w.WriteSummary(single(report))
}

// WriteSummary outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	for _, report := range summary.Reports {
		w.writeDocument(&sb, report)
	}
	w.writeRecordCounts(&sb, summary)
	w.writePublication(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         REFINEMENT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Documents:      %d\n", len(summary.Reports))
	fmt.Fprintf(sb, "Records:        %d\n", summary.TotalRecords())
	if summary.Failed() {
		sb.WriteString("Status:         FAILED\n")
	} else {
		sb.WriteString("Status:         Complete\n")
	}
	sb.WriteString("\n")
}

// writeDocument writes the section for one document.
func (w *SimpleWriter) writeDocument(sb *strings.Builder, report *model.RefinementReport) {
	writeSection(sb, "DOCUMENT "+report.Source)

	fmt.Fprintf(sb, "  Run ID:     %s\n", report.RunID)
	if report.UserID != "" {
		fmt.Fprintf(sb, "  User ID:    %s\n", report.UserID)
	}
	fmt.Fprintf(sb, "  Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "  Status:     %s\n", status(report))
	if msg := errorText(report); msg != "" {
		fmt.Fprintf(sb, "  Error:      %s\n", msg)
		if report.FailedStep != "" {
			fmt.Fprintf(sb, "  Failed at:  %s\n", report.FailedStep)
		}
	}
	if w.verbose {
		fmt.Fprintf(sb, "  Steps:      %s\n", strings.Join(report.PerformedSteps, " -> "))
	}

	if p := report.Proof; p != nil {
		sb.WriteString("\n  [proof]\n")
		fmt.Fprintf(sb, "  Confidence: %.2f\n", p.ConfidenceScore)
		fmt.Fprintf(sb, "  Method:     %s\n", p.VerificationMethod)
		fmt.Fprintf(sb, "  Posts: %d  Stories: %d  Comments: %d  DMs: %d  Engagement: %d\n",
			p.TotalPosts, p.TotalStories, p.TotalComments, p.TotalDMs, p.TotalEngagementMetrics)
		if w.verbose {
			fmt.Fprintf(sb, "  Profile:    %s\n", p.Profile)
			fmt.Fprintf(sb, "  Posts:      %s\n", p.Posts)
			fmt.Fprintf(sb, "  Stories:    %s\n", p.Stories)
			fmt.Fprintf(sb, "  Comments:   %s\n", p.Comments)
			fmt.Fprintf(sb, "  DMs:        %s\n", p.DMs)
		}
	}
	sb.WriteString("\n")
}

// writeRecordCounts writes the per-table record counts over all documents.
func (w *SimpleWriter) writeRecordCounts(sb *strings.Builder, summary *model.RunSummary) {
	counts := summary.RecordCounts()
	if len(counts) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "ANALYTIC RECORDS")
	for _, table := range model.TableNames() {
		n := counts[table]
		if n == 0 && !w.showEmpty {
			continue
		}
		fmt.Fprintf(sb, "  %-20s %d\n", table, n)
	}
	fmt.Fprintf(sb, "  %-20s %d\n", "TOTAL", summary.TotalRecords())
	sb.WriteString("\n")
}

// writePublication writes the published artifacts.
func (w *SimpleWriter) writePublication(sb *strings.Builder, summary *model.RunSummary) {
	if summary.Output == nil && len(summary.Artifacts) == 0 {
		return
	}

	writeSection(sb, "PUBLISHED ARTIFACTS")
	for _, a := range summary.Artifacts {
		fmt.Fprintf(sb, "  [+] %s\n", a.Name)
		fmt.Fprintf(sb, "      CID:  %s\n", a.CID)
		fmt.Fprintf(sb, "      Size: %d bytes\n", a.Size)
		if w.verbose {
			fmt.Fprintf(sb, "      URL:  %s\n", a.URL)
		}
	}
	if summary.Output != nil {
		fmt.Fprintf(sb, "\n  Refinement URL: %s\n", summary.Output.RefinementURL)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by refiner\n")
	sb.WriteString("https://github.com/nao1215/refiner\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}
