package core

import "context"

// MemoryService is what the transports need from the memory pipeline.
type MemoryService interface {
	Ask(ctx context.Context, query string) string
	Save(ctx context.Context, in NewMemory) (MemoryRecord, error)
	Ingest(ctx context.Context, msg InboundMessage) (MemoryRecord, error)
	Get(ctx context.Context, id string) (MemoryRecord, error)
	Search(ctx context.Context, query string, limit int) ([]MemoryRecord, error)
	Recent(ctx context.Context, typ *MemoryType, limit int) ([]MemoryRecord, error)
	FormatRecent(ctx context.Context, typ *MemoryType, limit int) (string, error)
}
