package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/refiner/internal/model"
	"github.com/nao1215/refiner/internal/storage"
)

// Artifact names used in published handles.
const (
	ArtifactSchema     = "schema"
	ArtifactProof      = "proof"
	ArtifactRefinement = "refinement"
)

// Sealer encrypts an artifact before it leaves the process.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
}

// Bundle is everything a finished run publishes.
type Bundle struct {
	Schema *model.OffChainSchema
	Proofs []*model.Proof
	// Database is the raw analytic database file.
	Database []byte
}

// Publication is the result of Publish.
type Publication struct {
	Output    model.Output
	Artifacts []model.Artifact
}

// Publisher seals the analytic database and uploads every artifact.
type Publisher struct {
	store  storage.Store
	sealer Sealer
	logger *slog.Logger

	// concurrency is the maximum number of concurrent uploads.
	concurrency int
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublishLogger sets a custom logger for publication.
func WithPublishLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithUploadConcurrency sets the maximum number of concurrent uploads.
// Default is 4 if not specified.
func WithUploadConcurrency(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewPublisher creates a Publisher.
func NewPublisher(store storage.Store, sealer Sealer, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:       store,
		sealer:      sealer,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

type upload struct {
	name string
	data []byte
}

// Publish uploads the schema, every proof and the sealed database.
//
// Design decision: uploads run concurrently with errgroup.SetLimit, because
// they are independent I/O against the store. The first failure cancels the
// rest and fails the whole publication; no partial Output is returned.
func (p *Publisher) Publish(ctx context.Context, b Bundle) (*Publication, error) {
	if b.Schema == nil {
		return nil, fmt.Errorf("%w: nothing to publish without a schema", ErrStepOrder)
	}

	sealed, err := p.sealer.Seal(b.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to seal database: %w", err)
	}

	schemaJSON, err := storage.MarshalIndent(b.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}

	uploads := []upload{{name: ArtifactSchema, data: schemaJSON}}
	for _, pr := range b.Proofs {
		data, err := storage.MarshalIndent(pr.Map())
		if err != nil {
			return nil, fmt.Errorf("failed to encode proof: %w", err)
		}
		uploads = append(uploads, upload{name: ArtifactProof + ":" + pr.UserID, data: data})
	}
	uploads = append(uploads, upload{name: ArtifactRefinement, data: sealed})

	// Pre-allocated to keep artifact order independent of completion order.
	handles := make([]storage.Handle, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, u := range uploads {
		g.Go(func() error {
			h, err := p.store.Put(gctx, u.name, u.data)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", u.name, err)
			}
			handles[i] = h
			p.logger.Info("artifact published",
				"artifact", u.name,
				"cid", h.CID,
				"size", h.Size,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pub := &Publication{
		Output:    model.Output{Schema: b.Schema},
		Artifacts: make([]model.Artifact, len(handles)),
	}
	for i, h := range handles {
		pub.Artifacts[i] = model.Artifact{Name: h.Name, CID: h.CID, URL: h.URL, Size: h.Size}
	}
	pub.Output.RefinementURL = handles[len(handles)-1].URL
	return pub, nil
}
