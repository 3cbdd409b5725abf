package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	defaultSearchWindow = 100
	defaultListLimit    = 5
)

const recordColumns = `id, type, summary, ts, ts_nanos, context, participants, raw_content,
	source_message_id, channel_id, author_id, metadata, created_at`

type RecordRepo struct {
	db           *sql.DB
	searchWindow int
}

// NewRecordRepo scans at most searchWindow recent records per keyword search.
func NewRecordRepo(db *sql.DB, searchWindow int) *RecordRepo {
	if searchWindow <= 0 {
		searchWindow = defaultSearchWindow
	}
	return &RecordRepo{db: db, searchWindow: searchWindow}
}

func (r *RecordRepo) Create(ctx context.Context, rec core.MemoryRecord) (string, error) {
	participants, err := json.Marshal(nonNil(rec.Participants))
	if err != nil {
		return "", fmt.Errorf("failed to marshal participants: %w", err)
	}

	extra := []byte("{}")
	if len(rec.Extra) > 0 {
		if extra, err = json.Marshal(rec.Extra); err != nil {
			return "", fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `INSERT INTO memories (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	// Seconds plus nanos covers every year ParseTimestamp accepts; UnixNano
	// alone overflows outside 1678..2262.
	ts := rec.Timestamp.UTC()
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Type), rec.Summary, ts.Unix(), ts.Nanosecond(), rec.Context, string(participants),
		rec.RawContent, rec.SourceMessageID, rec.ChannelID, rec.AuthorID, string(extra), rec.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert memory: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("id", rec.ID).Str("type", string(rec.Type)).Msg("memory stored")
	return rec.ID, nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (core.MemoryRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM memories WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MemoryRecord{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.MemoryRecord{}, fmt.Errorf("failed to get memory: %w", err)
	}
	return rec, nil
}

func (r *RecordRepo) List(ctx context.Context, filter core.RecordFilter) ([]core.MemoryRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Type != nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+recordColumns+` FROM memories WHERE type = ? ORDER BY ts DESC, ts_nanos DESC, created_at DESC LIMIT ?`,
			string(*filter.Type), limit)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+recordColumns+` FROM memories ORDER BY ts DESC, ts_nanos DESC, created_at DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (r *RecordRepo) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	keywords := core.Keywords(query)
	if len(keywords) == 0 || limit <= 0 {
		return nil, nil
	}

	recent, err := r.List(ctx, core.RecordFilter{Limit: r.searchWindow})
	if err != nil {
		return nil, err
	}

	var matches []core.MemoryRecord
	for _, rec := range recent {
		if rec.MatchesAny(keywords) {
			matches = append(matches, rec)
			if len(matches) >= limit {
				break
			}
		}
	}

	log.FromCtx(ctx).Debug().
		Int("scanned", len(recent)).
		Int("matched", len(matches)).
		Msg("keyword search finished")
	return matches, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.MemoryRecord, error) {
	var (
		rec                  core.MemoryRecord
		typ, participants    string
		extra                string
		tsSec, tsNanos       int64
		createdNano          int64
	)
	err := s.Scan(&rec.ID, &typ, &rec.Summary, &tsSec, &tsNanos, &rec.Context, &participants, &rec.RawContent,
		&rec.SourceMessageID, &rec.ChannelID, &rec.AuthorID, &extra, &createdNano)
	if err != nil {
		return core.MemoryRecord{}, err
	}

	rec.Type = core.MemoryType(typ)
	rec.Timestamp = time.Unix(tsSec, tsNanos).UTC()
	rec.CreatedAt = time.Unix(0, createdNano).UTC()

	if err := json.Unmarshal([]byte(participants), &rec.Participants); err != nil {
		return core.MemoryRecord{}, fmt.Errorf("failed to unmarshal participants: %w", err)
	}
	rec.Participants = nonNil(rec.Participants)

	if extra != "" && extra != "{}" {
		if err := json.Unmarshal([]byte(extra), &rec.Extra); err != nil {
			return core.MemoryRecord{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]core.MemoryRecord, error) {
	var records []core.MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
