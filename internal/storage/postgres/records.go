package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sandevgo/teammem/internal/core"
)

const (
	defaultSearchWindow = 100
	defaultListLimit    = 5
)

const recordColumns = `id, type, summary, ts, context, participants, raw_content, source_message_id, channel_id, author_id, metadata, created_at`

const (
	insertQuery = `INSERT INTO memories (` + recordColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	getQuery    = `SELECT ` + recordColumns + ` FROM memories WHERE id = $1`
	listQuery   = `SELECT ` + recordColumns + ` FROM memories ORDER BY ts DESC, created_at DESC LIMIT $1`
	listByType  = `SELECT ` + recordColumns + ` FROM memories WHERE type = $1 ORDER BY ts DESC, created_at DESC LIMIT $2`
	searchQuery = `SELECT ` + recordColumns + ` FROM (
		SELECT ` + recordColumns + ` FROM memories ORDER BY ts DESC, created_at DESC LIMIT $1
	) recent
	WHERE summary ILIKE ANY($2) OR raw_content ILIKE ANY($2)
	ORDER BY ts DESC, created_at DESC
	LIMIT $3`
)

type RecordRepo struct {
	db           *sql.DB
	searchWindow int
}

func NewRecordRepo(db *sql.DB, searchWindow int) *RecordRepo {
	if searchWindow <= 0 {
		searchWindow = defaultSearchWindow
	}
	return &RecordRepo{db: db, searchWindow: searchWindow}
}

func (r *RecordRepo) Create(ctx context.Context, rec core.MemoryRecord) (string, error) {
	participants := rec.Participants
	if participants == nil {
		participants = []string{}
	}
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return "", fmt.Errorf("failed to marshal participants: %w", err)
	}

	extra := []byte("{}")
	if len(rec.Extra) > 0 {
		if extra, err = json.Marshal(rec.Extra); err != nil {
			return "", fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, insertQuery,
		rec.ID, string(rec.Type), rec.Summary, rec.Timestamp.UTC(), rec.Context, participantsJSON,
		rec.RawContent, rec.SourceMessageID, rec.ChannelID, rec.AuthorID, extra, rec.CreatedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert memory: %w", err)
	}
	return rec.ID, nil
}

func (r *RecordRepo) Get(ctx context.Context, id string) (core.MemoryRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, getQuery, id))
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
		rows, err = r.db.QueryContext(ctx, listByType, string(*filter.Type), limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listQuery, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search matches keywords as case-insensitive substrings inside the most
// recent searchWindow records.
func (r *RecordRepo) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	keywords := core.Keywords(query)
	if len(keywords) == 0 || limit <= 0 {
		return nil, nil
	}

	patterns := make([]string, len(keywords))
	for i, kw := range keywords {
		patterns[i] = "%" + escapeLike(kw) + "%"
	}

	rows, err := r.db.QueryContext(ctx, searchQuery, r.searchWindow, pq.Array(patterns), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.MemoryRecord, error) {
	var (
		rec                 core.MemoryRecord
		typ                 string
		participants, extra []byte
	)
	err := s.Scan(&rec.ID, &typ, &rec.Summary, &rec.Timestamp, &rec.Context, &participants, &rec.RawContent,
		&rec.SourceMessageID, &rec.ChannelID, &rec.AuthorID, &extra, &rec.CreatedAt)
	if err != nil {
		return core.MemoryRecord{}, err
	}

	rec.Type = core.MemoryType(typ)
	rec.Timestamp = rec.Timestamp.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()

	rec.Participants = []string{}
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &rec.Participants); err != nil {
			return core.MemoryRecord{}, fmt.Errorf("failed to unmarshal participants: %w", err)
		}
	}
	if len(extra) > 0 && string(extra) != "{}" {
		if err := json.Unmarshal(extra, &rec.Extra); err != nil {
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
