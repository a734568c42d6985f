package model

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is one published output of a refinement run.
type Artifact struct {
	// Name is the logical artifact name (schema, proof, refinement).
	Name string `json:"name"`
	// CID is the content identifier returned by the store.
	CID  string `json:"cid"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// RefinementReport accumulates the state of one refinement run. Pipeline steps
// receive it in turn and fill in their part.
//
// Design decision: the raw document, the validated export and the analytic
// records are excluded from JSON. The report is printed and stored, and the
// export still holds clear-text personal data.
type RefinementReport struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Source names the input the document came from (usually a file name).
	Source string `json:"source"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at,omitzero"`

	// Document is the untyped input document.
	Document any `json:"-"`

	// Export is set by the validation step.
	Export *Export `json:"-"`

	// Records is set by the transform step.
	Records []Record `json:"-"`

	// UserID is copied from the validated export.
	UserID string `json:"user_id,omitempty"`

	// RecordCounts holds the number of records per table.
	RecordCounts map[string]int `json:"record_counts,omitempty"`

	Proof     *Proof          `json:"proof,omitempty"`
	Schema    *OffChainSchema `json:"schema,omitempty"`
	Artifacts []Artifact      `json:"artifacts,omitempty"`

	// RefinementURL points at the published, encrypted analytic database.
	RefinementURL string `json:"refinement_url,omitempty"`

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string `json:"performed_steps"`

	// FailedStep names the step that stopped the run, if any.
	FailedStep string `json:"failed_step,omitempty"`

	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// NewRefinementReport creates a report for the document read from source.
func NewRefinementReport(source string, document any) *RefinementReport {
	return &RefinementReport{
		RunID:          uuid.NewString(),
		Source:         source,
		StartedAt:      time.Now().UTC(),
		Document:       document,
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether the run ended with an error.
func (r *RefinementReport) Failed() bool {
	return r.Error != nil
}

// TotalRecords returns the number of analytic records produced.
func (r *RefinementReport) TotalRecords() int {
	total := 0
	for _, n := range r.RecordCounts {
		total += n
	}
	return total
}

// AddArtifact records a published artifact.
func (r *RefinementReport) AddArtifact(a Artifact) {
	r.Artifacts = append(r.Artifacts, a)
}

// Artifact returns the artifact with the given name.
func (r *RefinementReport) Artifact(name string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Output is the result document of a refinement run.
type Output struct {
	// RefinementURL points at the published, encrypted analytic database.
	RefinementURL string          `json:"refinement_url"`
	Schema        *OffChainSchema `json:"schema"`
}

// RunSummary describes one refinement run over a set of documents: the
// per-document reports and, when the run got that far, what was published.
type RunSummary struct {
	Reports   []*RefinementReport `json:"reports"`
	Output    *Output             `json:"output,omitempty"`
	Artifacts []Artifact          `json:"artifacts,omitempty"`
}

// NewRunSummary creates a summary over reports.
func NewRunSummary(reports []*RefinementReport) *RunSummary {
	if reports == nil {
		reports = make([]*RefinementReport, 0)
	}
	return &RunSummary{Reports: reports}
}

// SetPublication records the published output and its artifacts.
func (s *RunSummary) SetPublication(output Output, artifacts []Artifact) {
	s.Output = &output
	s.Artifacts = artifacts
}

// Failed reports whether any document failed.
func (s *RunSummary) Failed() bool {
	for _, r := range s.Reports {
		if r.Failed() {
			return true
		}
	}
	return false
}

// RecordCounts sums the per-table record counts of every report.
func (s *RunSummary) RecordCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range s.Reports {
		for table, n := range r.RecordCounts {
			counts[table] += n
		}
	}
	return counts
}

// TotalRecords returns the number of records produced over all documents.
func (s *RunSummary) TotalRecords() int {
	total := 0
	for _, r := range s.Reports {
		total += r.TotalRecords()
	}
	return total
}

// TableNames returns the analytic table names in schema order.
func TableNames() []string {
	tables := Schema()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}
