// Package chromem implements the vector index on top of chromem-go, an
// embedded vector database, either in memory or persisted under the runtime
// directory.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

var ErrEmptyVector = errors.New("empty vector")

type Index struct {
	path       string
	collection string

	mu  sync.Mutex
	db  *chromem.DB
	col *chromem.Collection
}

// NewIndex does not touch the filesystem; the database is opened on first use.
// An empty path keeps everything in memory.
func NewIndex(path, collection string) *Index {
	return &Index{path: path, collection: collection}
}

// EnsureInitialized is idempotent and safe for concurrent callers.
func (i *Index) EnsureInitialized(ctx context.Context) error {
	_, err := i.collectionHandle(ctx)
	return err
}

func (i *Index) collectionHandle(ctx context.Context) (*chromem.Collection, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.col != nil {
		return i.col, nil
	}

	db := chromem.NewDB()
	if i.path != "" {
		if err := os.MkdirAll(i.path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create vector directory: %w", err)
		}
		var err error
		db, err = chromem.NewPersistentDB(i.path, true)
		if err != nil {
			return nil, fmt.Errorf("failed to open vector database: %w", err)
		}
	}

	// Embeddings are always supplied by the caller, so no embedding func.
	col, err := db.GetOrCreateCollection(i.collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %q: %w", i.collection, err)
	}

	i.db, i.col = db, col
	log.FromCtx(ctx).Info().
		Str("collection", i.collection).
		Int("documents", col.Count()).
		Bool("persistent", i.path != "").
		Msg("vector index ready")
	return col, nil
}

func (i *Index) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string, text string) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}
	col, err := i.collectionHandle(ctx)
	if err != nil {
		return err
	}

	doc := chromem.Document{
		ID:        id,
		Content:   text,
		Embedding: vector,
		Metadata:  metadata,
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// Query returns up to k matches ordered by cosine similarity, best first.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]core.VectorMatch, error) {
	if len(vector) == 0 {
		return nil, ErrEmptyVector
	}
	col, err := i.collectionHandle(ctx)
	if err != nil {
		return nil, err
	}

	// chromem-go rejects nResults larger than the collection.
	if n := col.Count(); k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	matches := make([]core.VectorMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, core.VectorMatch{
			ID:       r.ID,
			Score:    r.Similarity,
			Metadata: r.Metadata,
			Text:     r.Content,
		})
	}
	return matches, nil
}

func (i *Index) Count(ctx context.Context) (int, error) {
	col, err := i.collectionHandle(ctx)
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}
