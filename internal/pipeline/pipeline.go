package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/refiner/internal/model"
)

// Step is one stage of a refinement. Each step reads what earlier steps put
// into the report and adds its own part.
//
// Design decision: steps are an interface rather than plain functions so
// they can carry collaborators (sinks, generators) and a Name for logs.
type Step interface {
	Do(ctx context.Context, report *model.RefinementReport) error
	Name() string
}

// Pipeline runs steps in order over a single document.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New returns an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over report and stops at the first error. The
// error, and the step that returned it, are recorded in the report.
//
// The context is checked before each step, not during: the core steps are
// pure computation, and I/O steps pass ctx on to their sinks.
func (p *Pipeline) Execute(ctx context.Context, report *model.RefinementReport) error {
	defer func() {
		report.CompletedAt = time.Now().UTC()
	}()

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("refinement cancelled", "step", step.Name(), "source", report.Source, "reason", err)
			markFailed(report, step, err)
			return err
		}
		if err := p.run(ctx, step, report); err != nil {
			markFailed(report, step, err)
			return err
		}
		report.PerformedSteps = append(report.PerformedSteps, step.Name())
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, step Step, report *model.RefinementReport) error {
	start := time.Now()
	err := step.Do(ctx, report)
	elapsed := time.Since(start)

	if err != nil {
		p.logger.Error("step failed",
			"step", step.Name(),
			"source", report.Source,
			"elapsed", elapsed,
			"error", err,
		)
		return err
	}
	p.logger.Debug("step done",
		"step", step.Name(),
		"source", report.Source,
		"elapsed", elapsed,
	)
	return nil
}

func markFailed(report *model.RefinementReport, step Step, err error) {
	report.FailedStep = step.Name()
	report.Error = err
	report.ErrorMessage = err.Error()
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
