package core

// VectorMatch is a single hit returned by the vector index.
type VectorMatch struct {
	ID       string
	Score    float32
	Metadata map[string]string
	Text     string
}

type ItemSource string

const (
	SourceVector ItemSource = "vector"
	SourceRecord ItemSource = "record"
)

// ContextItem is the normalized shape both retrieval sources are mapped to
// before ranking. Exactly one of Vector or Record is set, matching Source.
type ContextItem struct {
	Source       ItemSource
	Score        float32
	Type         string
	Body         string
	Timestamp    string
	Context      string
	Participants []string

	Vector *VectorMatch
	Record *MemoryRecord
}

// Metadata keys written next to every vector.
const (
	MetaType         = "type"
	MetaTimestamp    = "timestamp"
	MetaContext      = "context"
	MetaParticipants = "participants"
	MetaChannelID    = "channel_id"
	MetaRecordID     = "record_id"
)
