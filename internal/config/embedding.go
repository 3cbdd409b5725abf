package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	EmbeddingOllama = "ollama"
	EmbeddingOpenAI = "openai"
	EmbeddingHash   = "hash"
)

// Timeout must stay below AppConfig.SourceTimeout, otherwise a hanging
// remote model uses up the vector source budget before the hash fallback runs.
type EmbeddingConfig struct {
	Provider  string        `env:"TEAMMEM_EMBEDDING_PROVIDER" envDefault:"ollama"`
	BaseURL   string        `env:"TEAMMEM_EMBEDDING_URL" envDefault:"http://localhost:11434"`
	APIKey    string        `env:"TEAMMEM_EMBEDDING_API_KEY"`
	Model     string        `env:"TEAMMEM_EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	Dimension int           `env:"TEAMMEM_EMBEDDING_DIM" envDefault:"1536"`
	Timeout   time.Duration `env:"TEAMMEM_EMBEDDING_TIMEOUT" envDefault:"5s"`
	CacheSize int64         `env:"TEAMMEM_EMBEDDING_CACHE" envDefault:"10000"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	cfg := &EmbeddingConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	return cfg
}
