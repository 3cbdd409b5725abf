// Package memory answers questions from team memory and records new
// memories.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/internal/service/classifier"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	ErrorAnswer = "I encountered an error while searching the team memory."

	DefaultRecentLimit = 5
)

type Service struct {
	store      core.RecordStore
	index      core.VectorIndex
	embedder   core.Embedder
	classifier core.Classifier
	extractor  *classifier.Extractor
	retriever  *Retriever
	synth      *Synthesizer
	metrics    *metrics.Collector
	now        func() time.Time
}

type Deps struct {
	Store       core.RecordStore
	Index       core.VectorIndex
	Embedder    core.Embedder
	Classifier  core.Classifier
	Retriever   *Retriever
	Synthesizer *Synthesizer
	Metrics     *metrics.Collector
}

func NewService(d Deps) *Service {
	return &Service{
		store:      d.Store,
		index:      d.Index,
		embedder:   d.Embedder,
		classifier: d.Classifier,
		extractor:  classifier.NewExtractor(),
		retriever:  d.Retriever,
		synth:      d.Synthesizer,
		metrics:    d.Metrics,
		now:        time.Now,
	}
}

// Ask never fails; problems surface as an apologetic answer.
func (s *Service) Ask(ctx context.Context, query string) (answer string) {
	logger := log.FromCtx(ctx)
	defer func() {
		if p := recover(); p != nil {
			logger.Error().Interface("panic", p).Str("query", query).Msg("ask pipeline panicked")
			answer = ErrorAnswer
		}
	}()

	logger.Info().Str("query", query).Msg("processing query")

	vector, records := s.retriever.Retrieve(ctx, query)
	items := Aggregate(vector, records)
	return s.synth.Synthesize(ctx, query, items)
}

// Save stores the record first and then indexes it. An indexing failure is
// logged and the record is still returned.
func (s *Service) Save(ctx context.Context, in core.NewMemory) (core.MemoryRecord, error) {
	rec, err := core.NewRecord(in, s.now())
	if err != nil {
		return core.MemoryRecord{}, err
	}

	if _, err := s.store.Create(ctx, rec); err != nil {
		return core.MemoryRecord{}, fmt.Errorf("failed to store memory: %w", err)
	}

	if err := s.indexRecord(ctx, rec); err != nil {
		s.metrics.VectorUpsertFailed()
		log.FromCtx(ctx).Warn().Err(err).Str("id", rec.ID).Msg("memory stored without vector")
	}

	log.FromCtx(ctx).Info().
		Str("id", rec.ID).
		Str("type", rec.Type.String()).
		Msg("memory saved")

	return rec, nil
}

func (s *Service) indexRecord(ctx context.Context, rec core.MemoryRecord) error {
	vec, err := s.embedder.Embed(ctx, rec.Summary)
	if err != nil {
		return fmt.Errorf("failed to embed memory: %w", err)
	}

	meta := map[string]string{
		core.MetaType:         rec.Type.String(),
		core.MetaTimestamp:    FormatTimestamp(rec.Timestamp),
		core.MetaContext:      rec.Context,
		core.MetaParticipants: JoinParticipants(rec.Participants),
		core.MetaChannelID:    rec.ChannelID,
		core.MetaRecordID:     rec.ID,
	}
	return s.index.Upsert(ctx, rec.ID, vec, meta, rec.Summary)
}

// Ingest turns a monitored chat message into a memory. Messages too short to
// summarize return core.ErrNothingToExtract.
func (s *Service) Ingest(ctx context.Context, msg core.InboundMessage) (core.MemoryRecord, error) {
	text, err := classifier.Normalize(msg.Text)
	if err != nil {
		return core.MemoryRecord{}, err
	}

	summary, err := s.extractor.Summarize(text)
	if err != nil {
		return core.MemoryRecord{}, err
	}

	sentAt := msg.SentAt
	if sentAt.IsZero() {
		sentAt = s.now()
	}

	author := msg.Author
	if author == "" {
		author = "unknown"
	}

	typ := s.classifier.Classify(text)
	rec, err := s.Save(ctx, core.NewMemory{
		Type:            typ.String(),
		Summary:         summary,
		Timestamp:       sentAt.UTC().Format(time.RFC3339Nano),
		Context:         "channel: " + msg.ChatTitle,
		Participants:    []string{"@" + author},
		RawContent:      text,
		SourceMessageID: msg.MessageID,
		ChannelID:       msg.ChatID,
		AuthorID:        msg.AuthorID,
	})
	if err != nil {
		return core.MemoryRecord{}, err
	}

	s.metrics.Ingested(typ.String())
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (core.MemoryRecord, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error) {
	return s.store.Search(ctx, query, limit)
}

func (s *Service) Recent(ctx context.Context, typ *core.MemoryType, limit int) ([]core.MemoryRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.List(ctx, core.RecordFilter{Type: typ, Limit: limit})
}

// FormatRecent renders the latest memories as a numbered markdown list.
func (s *Service) FormatRecent(ctx context.Context, typ *core.MemoryType, limit int) (string, error) {
	records, err := s.Recent(ctx, typ, limit)
	if err != nil {
		return "", fmt.Errorf("failed to list memories: %w", err)
	}
	return FormatRecords(records, typ), nil
}

func FormatRecords(records []core.MemoryRecord, typ *core.MemoryType) string {
	if len(records) == 0 {
		label := "memory"
		if typ != nil {
			label = typ.String()
		}
		return fmt.Sprintf("No recent %s items found.", label)
	}

	var sb strings.Builder
	for i, r := range records {
		fmt.Fprintf(&sb, "%d. **%s** (%s)\n%s\n", i+1, strings.ToUpper(r.Type.String()), FormatTimestamp(r.Timestamp), r.Summary)
		if r.Context != "" {
			fmt.Fprintf(&sb, "*Context: %s*\n", r.Context)
		}
		if len(r.Participants) > 0 {
			fmt.Fprintf(&sb, "*Participants: %s*\n", strings.Join(r.Participants, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

const (
	reindexLimit   = 100_000
	reindexWorkers = 4
)

// Reindex re-embeds stored records into the vector index, e.g. after the
// embedding model changed. Records that fail to index are logged and
// skipped; the count of indexed records is returned.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	records, err := s.store.List(ctx, core.RecordFilter{Limit: reindexLimit})
	if err != nil {
		return 0, fmt.Errorf("failed to list memories: %w", err)
	}

	var indexed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reindexWorkers)

	for _, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.indexRecord(gctx, rec); err != nil {
				s.metrics.VectorUpsertFailed()
				log.FromCtx(ctx).Warn().Err(err).Str("id", rec.ID).Msg("failed to reindex memory")
				return nil
			}
			indexed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(indexed.Load()), fmt.Errorf("reindex interrupted: %w", err)
	}

	log.FromCtx(ctx).Info().
		Int("records", len(records)).
		Int64("indexed", indexed.Load()).
		Msg("reindex finished")
	return int(indexed.Load()), nil
}
