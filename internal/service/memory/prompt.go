package memory

import (
	"fmt"
	"strings"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/pkg/tokens"
)

const systemPrompt = `You are an intelligent team memory assistant that helps teams recall their decisions, blockers, and other important information. You should answer questions based solely on the provided context. If the context doesn't contain the answer, say so clearly rather than guessing. Format your responses in a clear, concise, and helpful way. For dates and times, use a consistent and human-readable format.`

const userPromptTemplate = `I need you to answer a question based on the team's memory records.

Question: %s

Here are the relevant memory records from the team's history:

%s
Please provide a clear, concise answer based ONLY on the information in these memory records.
If the records don't contain enough information to answer the question, please state that clearly.
Cite specific memories when appropriate by referring to their type and date.
`

// PromptBuilder renders context items into the generation prompt. Each
// memory body is cut to blockTokens tokens; zero keeps bodies whole.
type PromptBuilder struct {
	blockTokens int
}

func NewPromptBuilder(blockTokens int) *PromptBuilder {
	return &PromptBuilder{blockTokens: blockTokens}
}

func (p *PromptBuilder) System() string {
	return systemPrompt
}

func (p *PromptBuilder) User(query string, items []core.ContextItem) string {
	return fmt.Sprintf(userPromptTemplate, query, p.Blocks(items))
}

// Blocks formats items as numbered MEMORY sections.
func (p *PromptBuilder) Blocks(items []core.ContextItem) string {
	var sb strings.Builder
	for i, item := range items {
		body := item.Body
		if p.blockTokens > 0 {
			body = tokens.Truncate(body, p.blockTokens)
		}

		date := item.Timestamp
		if date == "" {
			date = "unknown"
		}

		fmt.Fprintf(&sb, "MEMORY %d:\n", i+1)
		fmt.Fprintf(&sb, "Type: %s\n", item.Type)
		fmt.Fprintf(&sb, "Date: %s\n", date)
		fmt.Fprintf(&sb, "Content: %s\n", body)
		if item.Context != "" {
			fmt.Fprintf(&sb, "Context: %s\n", item.Context)
		}
		if len(item.Participants) > 0 {
			fmt.Fprintf(&sb, "Participants: %s\n", strings.Join(item.Participants, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
