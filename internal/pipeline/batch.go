package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/source"
)

// BatchProcessor refines several documents, one after the other.
//
// Design decision: documents are processed sequentially even though the
// pipeline itself is reentrant. At most one transformation is in flight per
// process, so the analytic store sees one writer and the order of records in
// it follows the order of the input files.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	// We use a factory to ensure each document gets a fresh pipeline instance.
	pipelineFactory func() *Pipeline

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch refines docs in order and stops at the first failure.
// It returns the reports of every document it started, including the
// failed one, whose Error field is set.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, docs []source.Document) ([]*model.RefinementReport, error) {
	bp.logger.Info("starting batch processing", "documents", len(docs))
	startTime := time.Now()

	reports := make([]*model.RefinementReport, 0, len(docs))
	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		bp.logger.Info("refining document",
			"source", doc.Name,
			"index", i+1,
			"total", len(docs),
		)

		report := model.NewRefinementReport(doc.Name, doc.Body)
		reports = append(reports, report)

		if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
			return reports, fmt.Errorf("%s: %w", doc.Name, err)
		}

		bp.logger.Info("document refined",
			"source", doc.Name,
			"user_id", report.UserID,
			"records", report.TotalRecords(),
		)
	}

	bp.logger.Info("batch processing complete",
		"documents", len(docs),
		"elapsed", time.Since(startTime),
	)
	return reports, nil
}
