package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	sourceVector = "vector"
	sourceRecord = "record"
)

type RetrieverConfig struct {
	TopK        int
	SearchLimit int
	Timeout     time.Duration
}

// Retriever queries the vector index and the record store side by side. A
// failing source yields no items; it never fails the other one.
type Retriever struct {
	embedder core.Embedder
	index    core.VectorIndex
	store    core.RecordStore
	cfg      RetrieverConfig
	metrics  *metrics.Collector
}

func NewRetriever(
	embedder core.Embedder,
	index core.VectorIndex,
	store core.RecordStore,
	cfg RetrieverConfig,
	m *metrics.Collector,
) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 10
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		store:    store,
		cfg:      cfg,
		metrics:  m,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]core.VectorMatch, []core.MemoryRecord) {
	var (
		vector  []core.VectorMatch
		records []core.MemoryRecord
	)

	// Fetch errors are absorbed per source, so the group never cancels.
	var g errgroup.Group
	g.Go(func() error {
		vector = fetch(ctx, r, sourceVector, r.queryVectors, query)
		return nil
	})
	g.Go(func() error {
		records = fetch(ctx, r, sourceRecord, r.searchRecords, query)
		return nil
	})
	_ = g.Wait()

	log.FromCtx(ctx).Debug().
		Int("vector", len(vector)).
		Int("records", len(records)).
		Msg("retrieval finished")

	return vector, records
}

func (r *Retriever) queryVectors(ctx context.Context, query string) ([]core.VectorMatch, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.index.Query(ctx, vec, r.cfg.TopK)
}

func (r *Retriever) searchRecords(ctx context.Context, query string) ([]core.MemoryRecord, error) {
	return r.store.Search(ctx, query, r.cfg.SearchLimit)
}

func fetch[T any](
	ctx context.Context,
	r *Retriever,
	source string,
	fn func(context.Context, string) ([]T, error),
	query string,
) []T {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := safeCall(ctx, fn, query)
	took := time.Since(start)

	if err != nil {
		status := metrics.StatusError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			status = metrics.StatusTimeout
		}
		r.metrics.SourceFetch(source, status, took)
		log.FromCtx(ctx).Warn().Err(err).Str("source", source).Dur("took", took).Msg("retrieval source failed")
		return nil
	}

	r.metrics.SourceFetch(source, metrics.StatusOK, took)
	return out
}

func safeCall[T any](ctx context.Context, fn func(context.Context, string) ([]T, error), query string) (out []T, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx, query)
}
