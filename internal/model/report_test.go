package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewRefinementReport(t *testing.T) {
	t.Parallel()

	doc := map[string]any{"user_id": "u1"}
	r := NewRefinementReport("export.json", doc)

	if r.RunID == "" {
		t.Error("expected a run id")
	}
	if r.Source != "export.json" {
		t.Errorf("Source = %q", r.Source)
	}
	if r.StartedAt.IsZero() {
		t.Error("expected StartedAt to be set")
	}
	if r.Failed() {
		t.Error("new report should not be failed")
	}

	other := NewRefinementReport("export.json", doc)
	if other.RunID == r.RunID {
		t.Error("expected distinct run ids")
	}
}

func TestRefinementReportJSONOmitsRawData(t *testing.T) {
	t.Parallel()

	r := NewRefinementReport("export.json", map[string]any{"username": "alice"})
	r.Export = &Export{UserID: "u1", Profile: Profile{Username: "alice"}}
	r.Error = errors.New("boom")
	r.ErrorMessage = "boom"

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "alice") {
		t.Errorf("report JSON leaks clear-text data: %s", data)
	}
	if !strings.Contains(string(data), `"error":"boom"`) {
		t.Errorf("expected error message in JSON: %s", data)
	}
}

func TestRefinementReportArtifacts(t *testing.T) {
	t.Parallel()

	r := NewRefinementReport("x.json", nil)
	r.AddArtifact(Artifact{Name: "proof", CID: "bafy1"})
	r.AddArtifact(Artifact{Name: "schema", CID: "bafy2"})

	a, ok := r.Artifact("schema")
	if !ok || a.CID != "bafy2" {
		t.Errorf("Artifact(schema) = %+v, %v", a, ok)
	}
	if _, ok := r.Artifact("missing"); ok {
		t.Error("expected missing artifact lookup to fail")
	}

	r.RecordCounts = map[string]int{TablePosts: 2, TableMedia: 3}
	if r.TotalRecords() != 5 {
		t.Errorf("TotalRecords() = %d, want 5", r.TotalRecords())
	}
}

func TestRunSummary(t *testing.T) {
	t.Parallel()

	ok := NewRefinementReport("a.json", nil)
	ok.RecordCounts = map[string]int{TablePosts: 2, TableMedia: 3}
	other := NewRefinementReport("b.json", nil)
	other.RecordCounts = map[string]int{TablePosts: 1}

	s := NewRunSummary([]*RefinementReport{ok, other})
	if s.Failed() {
		t.Error("summary without errors should not be failed")
	}
	if got := s.TotalRecords(); got != 6 {
		t.Errorf("TotalRecords() = %d, want 6", got)
	}
	counts := s.RecordCounts()
	if counts[TablePosts] != 3 || counts[TableMedia] != 3 {
		t.Errorf("RecordCounts() = %v", counts)
	}

	other.Error = errors.New("boom")
	if !s.Failed() {
		t.Error("expected summary to be failed once a report failed")
	}

	s.SetPublication(Output{RefinementURL: "file:///x"}, []Artifact{{Name: "refinement"}})
	if s.Output == nil || s.Output.RefinementURL != "file:///x" {
		t.Errorf("Output = %+v", s.Output)
	}
}

func TestNewRunSummaryNil(t *testing.T) {
	t.Parallel()

	s := NewRunSummary(nil)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"reports":[]`) {
		t.Errorf("expected empty reports array, got %s", data)
	}
}

func TestTableNames(t *testing.T) {
	t.Parallel()

	names := TableNames()
	if len(names) != len(Schema()) {
		t.Fatalf("len(TableNames()) = %d, want %d", len(names), len(Schema()))
	}
	if names[0] != TableUserProfiles {
		t.Errorf("first table = %q, want %q", names[0], TableUserProfiles)
	}
}
