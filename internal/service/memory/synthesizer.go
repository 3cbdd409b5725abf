package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	NoContextAnswer = "I don't have any information about that in the team memory yet."
	ApologyAnswer   = "I'm sorry, I couldn't generate a response based on the team memory."

	templateHeader  = "Based on our team memory:\n\n"
	defaultMaxItems = 3
)

// Queries mentioning any of these are answered from decisions first.
var techTerms = []string{
	"tech stack", "technology", "stack", "framework",
	"angular", "react", "node", "frontend", "backend",
}

// Renderer turns the selected items into an answer.
type Renderer interface {
	Name() string
	Render(ctx context.Context, query string, items []core.ContextItem) (string, error)
}

// TemplateRenderer cannot fail.
type TemplateRenderer struct{}

func (TemplateRenderer) Name() string { return "template" }

func (TemplateRenderer) Render(_ context.Context, _ string, items []core.ContextItem) (string, error) {
	var sb strings.Builder
	sb.WriteString(templateHeader)
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. **%s** (%s)\n%s\n\n", i+1, strings.ToUpper(item.Type), item.Timestamp, item.Body)
	}
	return sb.String(), nil
}

type GenerativeRenderer struct {
	gen    core.Generator
	prompt *PromptBuilder
}

func NewGenerativeRenderer(gen core.Generator, prompt *PromptBuilder) *GenerativeRenderer {
	return &GenerativeRenderer{gen: gen, prompt: prompt}
}

func (r *GenerativeRenderer) Name() string { return "generative" }

func (r *GenerativeRenderer) Render(ctx context.Context, query string, items []core.ContextItem) (string, error) {
	answer, err := r.gen.Generate(ctx, r.prompt.System(), r.prompt.User(query, items))
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("empty generation")
	}
	return answer, nil
}

type Synthesizer struct {
	renderers []Renderer
	maxItems  int
	metrics   *metrics.Collector
}

// NewSynthesizer always appends the template renderer as the last resort.
// gen may be nil.
func NewSynthesizer(gen core.Generator, prompt *PromptBuilder, m *metrics.Collector) *Synthesizer {
	var renderers []Renderer
	if gen != nil {
		renderers = append(renderers, NewGenerativeRenderer(gen, prompt))
	}
	return NewSynthesizerWith(m, renderers...)
}

func NewSynthesizerWith(m *metrics.Collector, renderers ...Renderer) *Synthesizer {
	renderers = append(renderers, TemplateRenderer{})
	return &Synthesizer{
		renderers: renderers,
		maxItems:  defaultMaxItems,
		metrics:   m,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, query string, items []core.ContextItem) (answer string) {
	defer func() {
		if p := recover(); p != nil {
			log.FromCtx(ctx).Error().Interface("panic", p).Msg("synthesis panicked")
			answer = ApologyAnswer
		}
	}()

	if len(items) == 0 {
		return NoContextAnswer
	}

	selected := SelectItems(query, items, s.maxItems)

	logger := log.FromCtx(ctx)
	for _, r := range s.renderers {
		out, err := r.Render(ctx, query, selected)
		if err != nil {
			logger.Warn().Err(err).Str("renderer", r.Name()).Msg("renderer failed")
			continue
		}
		s.metrics.Synthesis(r.Name())
		return out
	}
	return ApologyAnswer
}

// SelectItems applies the tech-topic restriction and caps the list.
func SelectItems(query string, items []core.ContextItem, maxItems int) []core.ContextItem {
	if isTechQuery(query) {
		var decisions []core.ContextItem
		for _, item := range items {
			if item.Type == string(core.TypeDecision) {
				decisions = append(decisions, item)
			}
		}
		if len(decisions) > 0 {
			items = decisions
		}
	}

	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

func isTechQuery(query string) bool {
	q := strings.ToLower(query)
	for _, term := range techTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}
