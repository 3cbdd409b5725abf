package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
)

func seededStore() *fakeStore {
	return &fakeStore{records: []core.MemoryRecord{
		{ID: "r1", Type: core.TypeDecision, Summary: "We picked PostgreSQL"},
		{ID: "r2", Type: core.TypeBlocker, Summary: "Deploy blocked on certs"},
	}}
}

func TestRetriever_BothSources(t *testing.T) {
	index := &fakeIndex{matches: []core.VectorMatch{{ID: "v1", Score: 0.8}}}
	r := NewRetriever(fakeEmbedder{}, index, seededStore(), RetrieverConfig{Timeout: time.Second}, nil)

	vector, records := r.Retrieve(context.Background(), "postgresql")
	require.Len(t, vector, 1)
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)
}

func TestRetriever_VectorFailureIsIsolated(t *testing.T) {
	tests := []struct {
		name     string
		embedder fakeEmbedder
		index    *fakeIndex
	}{
		{"embedder error", fakeEmbedder{err: errBackend}, &fakeIndex{}},
		{"embedder panic", fakeEmbedder{panic: true}, &fakeIndex{}},
		{"index error", fakeEmbedder{}, &fakeIndex{err: errBackend}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewCollector()
			r := NewRetriever(tt.embedder, tt.index, seededStore(), RetrieverConfig{}, m)

			vector, records := r.Retrieve(context.Background(), "deploy")
			assert.Empty(t, vector)
			require.Len(t, records, 1)
			assert.Equal(t, "r2", records[0].ID)

			expected := `
# HELP teammem_source_fetch_total Retrieval fetches per source and outcome
# TYPE teammem_source_fetch_total counter
teammem_source_fetch_total{source="record",status="ok"} 1
teammem_source_fetch_total{source="vector",status="error"} 1
`
			assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "teammem_source_fetch_total"))
		})
	}
}

func TestRetriever_RecordTimeoutIsIsolated(t *testing.T) {
	store := seededStore()
	store.block = true
	index := &fakeIndex{matches: []core.VectorMatch{{ID: "v1", Score: 0.5}}}
	m := metrics.NewCollector()

	r := NewRetriever(fakeEmbedder{}, index, store, RetrieverConfig{Timeout: 50 * time.Millisecond}, m)

	start := time.Now()
	vector, records := r.Retrieve(context.Background(), "anything")
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Len(t, vector, 1)
	assert.Empty(t, records)

	expected := `
# HELP teammem_source_fetch_total Retrieval fetches per source and outcome
# TYPE teammem_source_fetch_total counter
teammem_source_fetch_total{source="record",status="timeout"} 1
teammem_source_fetch_total{source="vector",status="ok"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "teammem_source_fetch_total"))
}
