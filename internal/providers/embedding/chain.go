package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

type Strategy struct {
	Name     string
	Embedder core.Embedder
}

// Chain tries each strategy in order and returns the first vector, resized to
// the configured dimension.
type Chain struct {
	strategies []Strategy
	dim        int
	metrics    *metrics.Collector
}

func NewChain(dim int, m *metrics.Collector, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, dim: dim, metrics: m}
}

func (c *Chain) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, _, err := c.EmbedStrategy(ctx, text)
	return vec, err
}

// Primary names the first strategy, the one whose vectors are semantic.
func (c *Chain) Primary() string {
	if len(c.strategies) == 0 {
		return ""
	}
	return c.strategies[0].Name
}

// EmbedStrategy is Embed that also reports which strategy produced the vector.
func (c *Chain) EmbedStrategy(ctx context.Context, text string) ([]float32, string, error) {
	logger := log.FromCtx(ctx)

	var errs []error
	for _, s := range c.strategies {
		vec, err := s.Embedder.Embed(ctx, text)
		if err == nil && len(vec) > 0 {
			c.metrics.Embedding(s.Name, metrics.StatusOK)
			return Resize(vec, c.dim), s.Name, nil
		}
		if err == nil {
			err = errors.New("empty vector")
		}

		c.metrics.Embedding(s.Name, metrics.StatusError)
		logger.Warn().Err(err).Str("strategy", s.Name).Msg("embedding strategy failed")
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))

		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", fmt.Errorf("all embedding strategies failed: %w", errors.Join(errs...))
}

// Resize zero-pads or truncates vec to exactly dim entries. dim <= 0 keeps
// the vector as is.
func Resize(vec []float32, dim int) []float32 {
	if dim <= 0 || len(vec) == dim {
		return vec
	}
	if len(vec) > dim {
		return vec[:dim]
	}
	out := make([]float32, dim)
	copy(out, vec)
	return out
}
