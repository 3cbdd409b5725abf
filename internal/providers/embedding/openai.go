package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Remote calls an OpenAI-compatible /embeddings endpoint. Ollama exposes
// one under /v1.
type Remote struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewRemote(baseURL, apiKey, model string, timeout time.Duration) *Remote {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Remote{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// NewOllama points the client at Ollama's OpenAI-compatible API.
func NewOllama(baseURL, model string, timeout time.Duration) *Remote {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return NewRemote(base, "ollama", model, timeout)
}

func (r *Remote) Embed(ctx context.Context, text string) ([]float32, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	rsp, err := r.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(r.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return rsp.Data[0].Embedding, nil
}
