package pipeline

import (
	"context"

	"github.com/nao1215/refiner/internal/database"
	"github.com/nao1215/refiner/internal/model"
)

// DatabaseSink adapts a RefinementDB to AnalyticSink.
type DatabaseSink struct {
	db *database.RefinementDB
}

// NewDatabaseSink returns an AnalyticSink writing to db.
func NewDatabaseSink(db *database.RefinementDB) *DatabaseSink {
	return &DatabaseSink{db: db}
}

// BeginRecords stages records in a database transaction.
func (s *DatabaseSink) BeginRecords(ctx context.Context, userID string, records []model.Record) (Pending, error) {
	pending, err := s.db.BeginRecords(ctx, userID, records)
	if err != nil {
		return nil, err
	}
	return pending, nil
}
