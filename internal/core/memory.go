package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("memory not found")
	ErrNothingToExtract  = errors.New("message too short to extract a summary")
	ErrInvalidMemoryType = fmt.Errorf("%w: invalid memory type", ErrValidation)
)

type MemoryType string

const (
	TypeDecision     MemoryType = "decision"
	TypeBlocker      MemoryType = "blocker"
	TypeStatusUpdate MemoryType = "status_update"
	TypeMilestone    MemoryType = "milestone"
	TypeQuestion     MemoryType = "question"
	TypeAnswer       MemoryType = "answer"
)

// MemoryTypes lists every accepted type in its canonical order.
var MemoryTypes = []MemoryType{
	TypeDecision,
	TypeBlocker,
	TypeStatusUpdate,
	TypeMilestone,
	TypeQuestion,
	TypeAnswer,
}

func (t MemoryType) Valid() bool {
	for _, known := range MemoryTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t MemoryType) String() string {
	return string(t)
}

// ParseMemoryType is case-insensitive and ignores surrounding whitespace.
func ParseMemoryType(s string) (MemoryType, error) {
	t := MemoryType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMemoryType, s)
	}
	return t, nil
}

// MemoryTypeNames returns "decision, blocker, ..." for help and error texts.
func MemoryTypeNames() string {
	names := make([]string, len(MemoryTypes))
	for i, t := range MemoryTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// MemoryRecord is the durable unit of team knowledge. Records are never
// updated after insertion.
type MemoryRecord struct {
	ID              string         `json:"id"`
	Type            MemoryType     `json:"type"`
	Summary         string         `json:"summary"`
	Timestamp       time.Time      `json:"timestamp"`
	Context         string         `json:"context,omitempty"`
	Participants    []string       `json:"participants"`
	RawContent      string         `json:"raw_content,omitempty"`
	SourceMessageID string         `json:"source_message_id,omitempty"`
	ChannelID       string         `json:"channel_id,omitempty"`
	AuthorID        string         `json:"author_id,omitempty"`
	Extra           map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NewMemory is the unvalidated input accepted at the boundaries (HTTP, chat, MCP).
type NewMemory struct {
	Type            string         `json:"type"`
	Summary         string         `json:"summary"`
	Timestamp       string         `json:"timestamp"`
	Context         string         `json:"context,omitempty"`
	Participants    []string       `json:"participants,omitempty"`
	RawContent      string         `json:"raw_content,omitempty"`
	SourceMessageID string         `json:"source_message_id,omitempty"`
	ChannelID       string         `json:"channel_id,omitempty"`
	AuthorID        string         `json:"author_id,omitempty"`
	Extra           map[string]any `json:"metadata,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTimestamp accepts ISO-8601 with or without zone, "YYYY-MM-DD HH:MM:SS"
// and plain dates. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: timestamp is required", ErrValidation)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrValidation, s)
}

// NewRecord validates the input and assigns identity and creation time.
func NewRecord(in NewMemory, now time.Time) (MemoryRecord, error) {
	t, err := ParseMemoryType(in.Type)
	if err != nil {
		return MemoryRecord{}, err
	}

	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		return MemoryRecord{}, fmt.Errorf("%w: summary must not be empty", ErrValidation)
	}

	ts, err := ParseTimestamp(in.Timestamp)
	if err != nil {
		return MemoryRecord{}, err
	}

	participants := make([]string, 0, len(in.Participants))
	for _, p := range in.Participants {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}

	return MemoryRecord{
		ID:              uuid.NewString(),
		Type:            t,
		Summary:         summary,
		Timestamp:       ts,
		Context:         in.Context,
		Participants:    participants,
		RawContent:      in.RawContent,
		SourceMessageID: in.SourceMessageID,
		ChannelID:       in.ChannelID,
		AuthorID:        in.AuthorID,
		Extra:           in.Extra,
		CreatedAt:       now.UTC(),
	}, nil
}

// Keywords splits a free-text query the way the record search expects it.
func Keywords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesAny reports whether any keyword is a substring of the record's
// summary or raw content, case-insensitively.
func (r MemoryRecord) MatchesAny(keywords []string) bool {
	summary := strings.ToLower(r.Summary)
	raw := strings.ToLower(r.RawContent)
	for _, kw := range keywords {
		if strings.Contains(summary, kw) || strings.Contains(raw, kw) {
			return true
		}
	}
	return false
}
