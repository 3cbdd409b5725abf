package chromem

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_QueryEmpty(t *testing.T) {
	idx := NewIndex("", "test")

	got, err := idx.Query(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIndex_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex("", "test")

	require.NoError(t, idx.Upsert(ctx, "frontend", []float32{1, 0, 0}, map[string]string{"type": "decision"}, "Use React"))
	require.NoError(t, idx.Upsert(ctx, "backend", []float32{0, 1, 0}, map[string]string{"type": "blocker"}, "DB is down"))
	require.NoError(t, idx.Upsert(ctx, "mixed", []float32{0.7, 0.7, 0}, nil, ""))

	got, err := idx.Query(ctx, []float32{0.9, 0.1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, got, 3, "k is capped at the collection size")

	assert.Equal(t, "frontend", got[0].ID)
	assert.Equal(t, "Use React", got[0].Text)
	assert.Equal(t, "decision", got[0].Metadata["type"])
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}

	top, err := idx.Query(ctx, []float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "backend", top[0].ID)
}

func TestIndex_UpsertReplacesDocument(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex("", "test")

	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, nil, "first"))
	require.NoError(t, idx.Upsert(ctx, "a", []float32{1, 0}, nil, "second"))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := idx.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", got[0].Text)
}

func TestIndex_RejectsEmptyVector(t *testing.T) {
	idx := NewIndex("", "test")
	assert.ErrorIs(t, idx.Upsert(context.Background(), "a", nil, nil, "x"), ErrEmptyVector)

	_, err := idx.Query(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestIndex_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vectors")

	first := NewIndex(dir, "team")
	require.NoError(t, first.Upsert(ctx, "a", []float32{1, 0}, map[string]string{"type": "milestone"}, "v1 shipped"))

	second := NewIndex(dir, "team")
	got, err := second.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v1 shipped", got[0].Text)
	assert.Equal(t, "milestone", got[0].Metadata["type"])
}

func TestIndex_EnsureInitializedConcurrent(t *testing.T) {
	idx := NewIndex("", "test")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, idx.EnsureInitialized(context.Background()))
		}()
	}
	wg.Wait()

	assert.NotNil(t, idx.col)
}
