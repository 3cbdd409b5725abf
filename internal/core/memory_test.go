package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemoryType(t *testing.T) {
	tests := []struct {
		in      string
		want    MemoryType
		wantErr bool
	}{
		{"decision", TypeDecision, false},
		{" Blocker ", TypeBlocker, false},
		{"STATUS_UPDATE", TypeStatusUpdate, false},
		{"answer", TypeAnswer, false},
		{"idea", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMemoryType(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				assert.True(t, errors.Is(err, ErrInvalidMemoryType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339 zulu", "2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"rfc3339 offset normalized", "2024-03-01T12:00:00+02:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"fractional seconds", "2024-03-01T10:00:00.123456Z", time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC), false},
		{"space separated", "2024-03-01 10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"no zone", "2024-03-01T10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), false},
		{"date only", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNewRecord(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("valid input", func(t *testing.T) {
		rec, err := NewRecord(NewMemory{
			Type:         "decision",
			Summary:      "  Use React for the frontend  ",
			Timestamp:    "2024-03-01T10:00:00Z",
			Context:      "channel: dev",
			Participants: []string{"@alice", " ", "@bob"},
		}, now)
		require.NoError(t, err)

		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, TypeDecision, rec.Type)
		assert.Equal(t, "Use React for the frontend", rec.Summary)
		assert.Equal(t, []string{"@alice", "@bob"}, rec.Participants)
		assert.Equal(t, now, rec.CreatedAt)
	})

	t.Run("ids are unique", func(t *testing.T) {
		in := NewMemory{Type: "blocker", Summary: "db down", Timestamp: "2024-03-01"}
		a, err := NewRecord(in, now)
		require.NoError(t, err)
		b, err := NewRecord(in, now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	rejects := []struct {
		name string
		in   NewMemory
	}{
		{"unknown type", NewMemory{Type: "idea", Summary: "x", Timestamp: "2024-03-01"}},
		{"empty summary", NewMemory{Type: "decision", Summary: "   ", Timestamp: "2024-03-01"}},
		{"missing timestamp", NewMemory{Type: "decision", Summary: "x"}},
		{"bad timestamp", NewMemory{Type: "decision", Summary: "x", Timestamp: "03/01/2024"}},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord(tt.in, now)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMemoryRecord_MatchesAny(t *testing.T) {
	rec := MemoryRecord{Summary: "Decided to use React", RawContent: "We DECIDED on React for the Frontend"}

	assert.True(t, rec.MatchesAny(Keywords("frontend")))
	assert.True(t, rec.MatchesAny(Keywords("angular react")))
	assert.False(t, rec.MatchesAny(Keywords("backend database")))
	assert.False(t, rec.MatchesAny(Keywords("   ")))
}
