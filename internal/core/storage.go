package core

import (
	"context"
)

type RecordFilter struct {
	Type  *MemoryType
	Limit int
}

// RecordStore is the system of record for memories.
type RecordStore interface {
	Create(ctx context.Context, rec MemoryRecord) (string, error)
	Get(ctx context.Context, id string) (MemoryRecord, error)
	// List returns records ordered by timestamp, most recent first.
	List(ctx context.Context, filter RecordFilter) ([]MemoryRecord, error)
	// Search is a keyword search over the most recent records.
	Search(ctx context.Context, query string, limit int) ([]MemoryRecord, error)
}

type VectorIndex interface {
	EnsureInitialized(ctx context.Context) error
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, text string) error
	Query(ctx context.Context, vector []float32, k int) ([]VectorMatch, error)
}
