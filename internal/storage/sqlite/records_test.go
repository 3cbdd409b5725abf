package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T, window int) *RecordRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRecordRepo(db, window)
}

func mustRecord(t *testing.T, typ, summary, ts string) core.MemoryRecord {
	t.Helper()
	rec, err := core.NewRecord(core.NewMemory{
		Type:         typ,
		Summary:      summary,
		Timestamp:    ts,
		Context:      "channel: dev",
		Participants: []string{"@alice"},
		RawContent:   "raw: " + summary,
	}, time.Now())
	require.NoError(t, err)
	return rec
}

func TestRecordRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 0)

	rec := mustRecord(t, "decision", "Use React", "2024-03-01T10:00:00Z")
	rec.Extra = map[string]any{"source": "manual"}

	id, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, core.TypeDecision, got.Type)
	assert.Equal(t, "Use React", got.Summary)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, []string{"@alice"}, got.Participants)
	assert.Equal(t, "manual", got.Extra["source"])
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestRecordRepo_TimestampRoundTripOutsideNanoRange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 0)

	for _, ts := range []string{
		"2300-01-01",
		"1600-06-15T12:00:00.123456789Z",
		"0001-01-01T00:00:00Z",
		"9999-12-31T23:59:59.999999999Z",
	} {
		t.Run(ts, func(t *testing.T) {
			rec := mustRecord(t, "milestone", "far away "+ts, ts)
			_, err := repo.Create(ctx, rec)
			require.NoError(t, err)

			got, err := repo.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.True(t, rec.Timestamp.Equal(got.Timestamp), "stored %s, read back %s", rec.Timestamp, got.Timestamp)
		})
	}

	recent, err := repo.List(ctx, core.RecordFilter{Limit: 4})
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, 9999, recent[0].Timestamp.Year())
	assert.Equal(t, 2300, recent[1].Timestamp.Year())
	assert.Equal(t, 1600, recent[2].Timestamp.Year())
	assert.Equal(t, 1, recent[3].Timestamp.Year())
}

func TestRecordRepo_ListOrdersSubSecond(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 0)

	early := mustRecord(t, "status_update", "early", "2024-03-01T10:00:00.1Z")
	late := mustRecord(t, "status_update", "late", "2024-03-01T10:00:00.9Z")
	for _, rec := range []core.MemoryRecord{late, early} {
		_, err := repo.Create(ctx, rec)
		require.NoError(t, err)
	}

	recent, err := repo.List(ctx, core.RecordFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "late", recent[0].Summary)
	assert.Equal(t, "early", recent[1].Summary)
}

func TestRecordRepo_GetMissing(t *testing.T) {
	_, err := newTestRepo(t, 0).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRecordRepo_DuplicateIDRejected(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 0)

	rec := mustRecord(t, "blocker", "CI is red", "2024-03-01")
	_, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	_, err = repo.Create(ctx, rec)
	assert.Error(t, err)
}

func TestRecordRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 0)

	for i, typ := range []string{"decision", "blocker", "decision", "milestone"} {
		rec := mustRecord(t, typ, fmt.Sprintf("item %d", i), fmt.Sprintf("2024-03-0%dT10:00:00Z", i+1))
		_, err := repo.Create(ctx, rec)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, core.RecordFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "item 3", all[0].Summary, "most recent first")
	assert.Equal(t, "item 0", all[3].Summary)

	decision := core.TypeDecision
	decisions, err := repo.List(ctx, core.RecordFilter{Type: &decision, Limit: 10})
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "item 2", decisions[0].Summary)

	limited, err := repo.List(ctx, core.RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordRepo_Search(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, 3)

	seed := []struct {
		summary string
		ts      string
	}{
		{"React chosen for frontend", "2024-03-01T10:00:00Z"},
		{"Postgres for storage", "2024-03-02T10:00:00Z"},
		{"Frontend build is slow", "2024-03-03T10:00:00Z"},
		{"Deploy pipeline ready", "2024-03-04T10:00:00Z"},
		{"Frontend release shipped", "2024-03-05T10:00:00Z"},
	}
	for _, s := range seed {
		_, err := repo.Create(ctx, mustRecord(t, "status_update", s.summary, s.ts))
		require.NoError(t, err)
	}

	t.Run("scans only the recent window", func(t *testing.T) {
		got, err := repo.Search(ctx, "FRONTEND", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Frontend release shipped", got[0].Summary)
		assert.Equal(t, "Frontend build is slow", got[1].Summary)
	})

	t.Run("any keyword matches", func(t *testing.T) {
		got, err := repo.Search(ctx, "pipeline release", 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("raw content is searched", func(t *testing.T) {
		got, err := repo.Search(ctx, "raw:", 10)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("limit caps results", func(t *testing.T) {
		got, err := repo.Search(ctx, "raw:", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("empty query", func(t *testing.T) {
		got, err := repo.Search(ctx, "   ", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
