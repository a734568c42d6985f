package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/nao1215/refiner/internal/model"
)

func validDocument(userID string) map[string]any {
	return map[string]any{
		"user_id":               userID,
		"data_export_timestamp": "2024-01-15T10:30:00Z",
		"profile": map[string]any{
			"username":        "alice",
			"full_name":       "Alice Doe",
			"bio":             "hello there",
			"follower_count":  100.0,
			"following_count": 10.0,
			"post_count":      1.0,
		},
		"posts": []any{
			map[string]any{
				"post_id":       userID + "-p1",
				"caption":       "first",
				"timestamp":     "2024-01-01T09:00:00Z",
				"like_count":    5.0,
				"comment_count": 5.0,
				"media":         []any{map[string]any{"media_type": "photo", "url": "https://cdn.example.com/1.jpg"}},
				"hashtags":      []any{"#a", "#A"},
			},
		},
	}
}

// memorySink records what the pipeline hands to its sinks. Records only
// become visible on Commit.
type memorySink struct {
	mu        sync.Mutex
	records   map[string][]model.Record
	proofs    []map[string]any
	err       error
	proofErr  error
	rollbacks int
}

func newMemorySink() *memorySink {
	return &memorySink{records: make(map[string][]model.Record)}
}

type memoryPending struct {
	sink    *memorySink
	userID  string
	records []model.Record
}

func (p *memoryPending) Commit() error {
	p.sink.mu.Lock()
	defer p.sink.mu.Unlock()
	p.sink.records[p.userID] = p.records
	return nil
}

func (p *memoryPending) Rollback() error {
	p.sink.mu.Lock()
	defer p.sink.mu.Unlock()
	p.sink.rollbacks++
	return nil
}

func (m *memorySink) BeginRecords(_ context.Context, userID string, records []model.Record) (Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &memoryPending{sink: m, userID: userID, records: records}, nil
}

func (m *memorySink) SaveProof(_ context.Context, proof map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.proofErr != nil {
		return m.proofErr
	}
	m.proofs = append(m.proofs, proof)
	return nil
}

var errSink = errors.New("sink unavailable")
