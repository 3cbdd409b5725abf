// Package llm adapts hosted and local language models to core.Generator.
package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/teammem/internal/config"
	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/log"
)

// NewGenerator returns nil when generation is disabled; answers then come
// from the template renderer alone.
func NewGenerator(ctx context.Context, cfg *config.LLMConfig) (core.Generator, error) {
	if !cfg.Enabled() {
		log.FromCtx(ctx).Info().Msg("llm disabled, using template answers")
		return nil, nil
	}

	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	oc := OpenAIConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Provider {
	case config.LLMOpenAI:
		if oc.BaseURL == "" {
			oc.BaseURL = openAIBaseURL
		}
		return NewOpenAI(oc), nil
	case config.LLMOllama:
		oc.BaseURL = ollamaURL(cfg.BaseURL)
		if oc.APIKey == "" {
			oc.APIKey = "ollama"
		}
		return NewOpenAI(oc), nil
	case config.LLMCustom:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom llm provider requires TEAMMEM_LLM_URL")
		}
		return NewOpenAI(oc), nil
	case config.LLMAnthropic:
		return NewAnthropic(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
