package embedding

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/sandevgo/teammem/internal/core"
)

// strategyEmbedder reports which strategy answered, so fallback vectors stay
// out of the cache and the primary is asked again once it recovers.
type strategyEmbedder interface {
	EmbedStrategy(ctx context.Context, text string) ([]float32, string, error)
	Primary() string
}

// Cached memoizes vectors by exact text. Every entry costs 1, so maxItems
// bounds the number of cached texts.
type Cached struct {
	next  core.Embedder
	cache *ristretto.Cache
}

func NewCached(next core.Embedder, maxItems int64) (*Cached, error) {
	if maxItems <= 0 {
		maxItems = 1000
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	se, ok := c.next.(strategyEmbedder)
	if !ok {
		vec, err := c.next.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.cache.Set(text, vec, 1)
		return vec, nil
	}

	vec, strategy, err := se.EmbedStrategy(ctx, text)
	if err != nil {
		return nil, err
	}
	if strategy == se.Primary() {
		c.cache.Set(text, vec, 1)
	}
	return vec, nil
}

// Wait blocks until pending writes are visible to Get.
func (c *Cached) Wait() {
	c.cache.Wait()
}

func (c *Cached) Close() {
	c.cache.Close()
}
