package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	LLMNone      = "none"
	LLMOllama    = "ollama"
	LLMOpenAI    = "openai"
	LLMAnthropic = "anthropic"
	LLMCustom    = "custom"
)

type LLMConfig struct {
	Provider    string        `env:"TEAMMEM_LLM_PROVIDER" envDefault:"none"`
	BaseURL     string        `env:"TEAMMEM_LLM_URL"`
	APIKey      string        `env:"TEAMMEM_LLM_API_KEY"`
	Model       string        `env:"TEAMMEM_LLM_MODEL" envDefault:"llama3"`
	Timeout     time.Duration `env:"TEAMMEM_LLM_TIMEOUT" envDefault:"60s"`
	MaxTokens   int           `env:"TEAMMEM_LLM_MAX_TOKENS" envDefault:"4096"`
	Temperature float32       `env:"TEAMMEM_LLM_TEMPERATURE" envDefault:"0.3"`

	// Per-memory token budget inside the generation prompt. Zero disables trimming.
	PromptBlockTokens int `env:"TEAMMEM_PROMPT_BLOCK_TOKENS" envDefault:"512"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) Enabled() bool {
	return c.Provider != "" && c.Provider != LLMNone
}
