package memory

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/teammem/internal/core"
)

const (
	unknownType      = "unknown"
	noContentMessage = "no content available"
)

// Aggregate merges both retrieval sources into one ranked list. Vector hits
// come first, records after; the stable sort by score keeps records (all
// scored 0) in the store's recency order.
func Aggregate(vector []core.VectorMatch, records []core.MemoryRecord) []core.ContextItem {
	items := make([]core.ContextItem, 0, len(vector)+len(records))

	for i := range vector {
		items = append(items, fromVector(&vector[i]))
	}
	for i := range records {
		items = append(items, fromRecord(&records[i]))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}

func fromVector(m *core.VectorMatch) core.ContextItem {
	typ := m.Metadata[core.MetaType]
	if typ == "" {
		typ = unknownType
	}
	body := m.Text
	if body == "" {
		body = noContentMessage
	}

	return core.ContextItem{
		Source:       core.SourceVector,
		Score:        m.Score,
		Type:         typ,
		Body:         body,
		Timestamp:    m.Metadata[core.MetaTimestamp],
		Context:      m.Metadata[core.MetaContext],
		Participants: SplitParticipants(m.Metadata[core.MetaParticipants]),
		Vector:       m,
	}
}

func fromRecord(r *core.MemoryRecord) core.ContextItem {
	return core.ContextItem{
		Source:       core.SourceRecord,
		Score:        0,
		Type:         string(r.Type),
		Body:         r.Summary,
		Timestamp:    FormatTimestamp(r.Timestamp),
		Context:      r.Context,
		Participants: r.Participants,
		Record:       r,
	}
}

// JoinParticipants and SplitParticipants define how participant lists travel
// through flat vector metadata: a JSON array, so names may contain commas.
func JoinParticipants(p []string) string {
	if len(p) == 0 {
		return ""
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// SplitParticipants also reads the older comma separated form.
func SplitParticipants(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	if !strings.HasPrefix(s, "[") || json.Unmarshal([]byte(s), &parts) != nil {
		parts = strings.Split(s, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
