package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/sandevgo/teammem/internal/core"
)

type fakeStore struct {
	mu      sync.Mutex
	records []core.MemoryRecord

	createErr error
	searchErr error
	block     bool
}

func (f *fakeStore) Create(_ context.Context, rec core.MemoryRecord) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return rec.ID, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (core.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return core.MemoryRecord{}, core.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, filter core.RecordFilter) ([]core.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.MemoryRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if filter.Type != nil && r.Type != *filter.Type {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	all, _ := f.List(ctx, core.RecordFilter{})
	kws := core.Keywords(query)
	var out []core.MemoryRecord
	for _, r := range all {
		if r.MatchesAny(kws) {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeIndex struct {
	mu       sync.Mutex
	matches  []core.VectorMatch
	err      error
	upserted map[string]map[string]string
}

func (f *fakeIndex) EnsureInitialized(context.Context) error { return nil }

func (f *fakeIndex) Upsert(_ context.Context, id string, _ []float32, metadata map[string]string, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = map[string]map[string]string{}
	}
	f.upserted[id] = metadata
	return nil
}

func (f *fakeIndex) Query(context.Context, []float32, int) ([]core.VectorMatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type fakeEmbedder struct {
	err   error
	panic bool
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	if f.panic {
		panic("embedder exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

var errBackend = errors.New("backend unavailable")
