// Package embedding turns text into vectors for the memory index.
package embedding

import (
	"context"
	"fmt"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	StrategyRemote = "remote"
	StrategyHash   = "hash"
)

// New builds the embedder for cfg.Provider. Remote providers always fall back
// to the hash strategy, so Embed only fails when the context is done.
func New(ctx context.Context, cfg *config.EmbeddingConfig, m *metrics.Collector) (core.Embedder, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", cfg.Dimension)
	}
	hash := Strategy{Name: StrategyHash, Embedder: NewHash(cfg.Dimension)}

	var chain *Chain
	switch cfg.Provider {
	case config.EmbeddingOllama:
		chain = NewChain(cfg.Dimension, m,
			Strategy{Name: StrategyRemote, Embedder: NewOllama(cfg.BaseURL, cfg.Model, cfg.Timeout)},
			hash,
		)
	case config.EmbeddingOpenAI:
		chain = NewChain(cfg.Dimension, m,
			Strategy{Name: StrategyRemote, Embedder: NewRemote(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)},
			hash,
		)
	case config.EmbeddingHash:
		chain = NewChain(cfg.Dimension, m, hash)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}

	log.FromCtx(ctx).Debug().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Int("dim", cfg.Dimension).
		Msg("embedding provider configured")

	if cfg.CacheSize <= 0 {
		return chain, nil
	}
	cached, err := NewCached(chain, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
