package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/refiner/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, code blocks and
// GitHub-flavored markdown alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single document report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RefinementReport) (int, error) {
	return w.WriteSummary(single(report))
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeRecords(md, summary)
	w.writeDocuments(md, summary)
	w.writePublication(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Refinement Report")
	md.PlainText("")

	status := "✅ Complete"
	if summary.Failed() {
		status = "❌ Failed"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Documents", strconv.Itoa(len(summary.Reports))},
			{"Analytic Records", strconv.Itoa(summary.TotalRecords())},
			{"Status", status},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// writeAlert writes an alert describing the overall outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.Failed():
		md.Cautionf("Refinement failed. %d document(s) could not be refined and nothing was published.", failedCount(summary))
	case summary.Output == nil:
		md.Note("Documents were refined but nothing has been published yet.")
	default:
		md.Tip(fmt.Sprintf("Refinement published to `%s`.", summary.Output.RefinementURL))
	}
	md.PlainText("")
}

// writeRecords writes the per-table record counts and their distribution.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Analytic Records")
	md.PlainText("")

	counts := summary.RecordCounts()
	if len(counts) == 0 {
		md.PlainText("No analytic records were produced.")
		md.PlainText("")
		return
	}

	tables := model.TableNames()
	rows := make([][]string, 0, len(tables)+1)
	for _, table := range tables {
		rows = append(rows, []string{"`" + table + "`", strconv.Itoa(counts[table])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(summary.TotalRecords()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Table", "Records"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, tables, counts)
}

// writePieChart writes a mermaid pie chart of the record distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, tables []string, counts map[string]int) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Record Distribution"),
		piechart.WithShowData(true),
	)

	for _, table := range tables {
		if n := counts[table]; n > 0 {
			chart.LabelAndIntValue(table, uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDocuments writes one section per refined document.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Documents")
	md.PlainText("")

	if len(summary.Reports) == 0 {
		md.PlainText("No documents were processed.")
		md.PlainText("")
		return
	}

	for _, report := range summary.Reports {
		md.PlainText("### " + report.Source)
		md.PlainText("")

		rows := [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"User ID", orDash(report.UserID)},
			{"Status", status(report)},
		}
		if msg := errorText(report); msg != "" {
			rows = append(rows, []string{"Error", truncateString(msg, 80)})
			if report.FailedStep != "" {
				rows = append(rows, []string{"Failed Step", "`" + report.FailedStep + "`"})
			}
		}
		if p := report.Proof; p != nil {
			rows = append(rows,
				[]string{"Confidence", fmt.Sprintf("%.2f", p.ConfidenceScore)},
				[]string{"Verification Method", "`" + p.VerificationMethod.String() + "`"},
			)
		}
		md.Table(markdown.TableSet{
			Header: []string{"Property", "Value"},
			Rows:   rows,
		})
		md.PlainText("")

		if p := report.Proof; p != nil {
			md.Details("Content hashes", fmt.Sprintf(
				"profile: %s\nposts: %s\nstories: %s\ncomments: %s\ndms: %s",
				p.Profile, p.Posts, p.Stories, p.Comments, p.DMs,
			))
			md.PlainText("")
		}
	}
}

// writePublication writes the published artifacts.
func (w *MarkdownWriter) writePublication(md *markdown.Markdown, summary *model.RunSummary) {
	if len(summary.Artifacts) == 0 {
		return
	}

	md.H2("Published Artifacts")
	md.PlainText("")

	rows := make([][]string, len(summary.Artifacts))
	for i, a := range summary.Artifacts {
		rows[i] = []string{a.Name, "`" + truncateString(a.CID, 64) + "`", strconv.FormatInt(a.Size, 10)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Artifact", "CID", "Bytes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [refiner](https://github.com/nao1215/refiner)*")
}

func failedCount(summary *model.RunSummary) int {
	n := 0
	for _, r := range summary.Reports {
		if r.Failed() || r.ErrorMessage != "" {
			n++
		}
	}
	return n
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
