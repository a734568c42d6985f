package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/proof"
	"github.com/nao1215/refiner/internal/transform"
	"github.com/nao1215/refiner/internal/validate"
)

// ErrStepOrder is returned when a step runs before the step it depends on.
var ErrStepOrder = errors.New("pipeline step run out of order")

// AnalyticSink persists the analytic records of one export in two phases:
// BeginRecords stages them, and the returned Pending makes them visible or
// discards them.
type AnalyticSink interface {
	BeginRecords(ctx context.Context, userID string, records []model.Record) (Pending, error)
}

// Pending is a staged write. Commit and Rollback are each final.
type Pending interface {
	Commit() error
	Rollback() error
}

// ProofSink persists a proof document given as a flat key-value map.
type ProofSink interface {
	SaveProof(ctx context.Context, proof map[string]any) error
}

// ValidateStep checks the raw document and stores the typed export.
type ValidateStep struct{}

// NewValidateStep creates a validation step.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do executes the validation step.
func (s *ValidateStep) Do(_ context.Context, report *model.RefinementReport) error {
	export, err := validate.Export(report.Document)
	if err != nil {
		return err
	}
	report.Export = export
	report.UserID = export.UserID
	return nil
}

// TransformStep produces the anonymized analytic records.
type TransformStep struct {
	transformer *transform.Transformer
}

// NewTransformStep creates a transformation step.
func NewTransformStep(t *transform.Transformer) *TransformStep {
	if t == nil {
		t = transform.New()
	}
	return &TransformStep{transformer: t}
}

// Name returns the step name.
func (s *TransformStep) Name() string {
	return "transform"
}

// Do executes the transformation step.
func (s *TransformStep) Do(_ context.Context, report *model.RefinementReport) error {
	if report.Export == nil {
		return fmt.Errorf("%w: transform needs a validated export", ErrStepOrder)
	}
	records, err := s.transformer.Transform(report.Export)
	if err != nil {
		return err
	}
	report.Records = records
	report.RecordCounts = model.CountByTable(records)
	return nil
}

// ProofStep generates the proof document from the raw export.
type ProofStep struct {
	generator *proof.Generator
}

// NewProofStep creates a proof generation step.
func NewProofStep(g *proof.Generator) *ProofStep {
	if g == nil {
		g = proof.NewGenerator()
	}
	return &ProofStep{generator: g}
}

// Name returns the step name.
func (s *ProofStep) Name() string {
	return "proof"
}

// Do executes the proof generation step.
func (s *ProofStep) Do(_ context.Context, report *model.RefinementReport) error {
	if report.Export == nil {
		return fmt.Errorf("%w: proof needs a validated export", ErrStepOrder)
	}
	p, err := s.generator.Generate(report.Export)
	if err != nil {
		return err
	}
	report.Proof = p
	return nil
}

// PersistStep writes both outputs of a refinement. The records are staged,
// the proof is saved, and only then are the records committed. A proof
// that cannot be saved rolls the staged records back, so the analytic sink
// never holds records for an export without a proof.
type PersistStep struct {
	records AnalyticSink
	proofs  ProofSink
	logger  *slog.Logger
}

// NewPersistStep creates a persistence step.
func NewPersistStep(records AnalyticSink, proofs ProofSink, logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{records: records, proofs: proofs, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, report *model.RefinementReport) error {
	if report.Records == nil {
		return fmt.Errorf("%w: persist needs transformed records", ErrStepOrder)
	}
	if report.Proof == nil {
		return fmt.Errorf("%w: persist needs a generated proof", ErrStepOrder)
	}

	pending, err := s.records.BeginRecords(ctx, report.UserID, report.Records)
	if err != nil {
		return fmt.Errorf("failed to stage analytic records: %w", err)
	}

	if err := s.proofs.SaveProof(ctx, report.Proof.Map()); err != nil {
		if rbErr := pending.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "user_id", report.UserID, "error", rbErr)
		}
		return fmt.Errorf("failed to save proof: %w", err)
	}

	// The proof is already on disk if Commit fails; the batch stops and
	// nothing is published.
	if err := pending.Commit(); err != nil {
		return fmt.Errorf("failed to save analytic records: %w", err)
	}

	s.logger.Info("refinement persisted",
		"user_id", report.UserID,
		"records", len(report.Records),
	)
	return nil
}

// Default builds the standard refinement pipeline. Both outputs are computed
// before anything is written, and PersistStep commits them together, so a
// failing export leaves no trace in the analytic sink.
func Default(records AnalyticSink, proofs ProofSink, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewValidateStep(),
		NewTransformStep(nil),
		NewProofStep(nil),
		NewPersistStep(records, proofs, logger),
	)
	return p
}
