// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter / FullJSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a mermaid pie chart
//
// Design decision: We separate report writing from report data structures
// (which are in the model package). This allows adding new output formats
// without modifying the core data structures.
//
// Reports only ever contain identifiers, counts, digests and artifact
// handles. The clear-text export never reaches a writer.
package report
