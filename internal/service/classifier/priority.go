// Package classifier assigns a memory type to raw chat text with fixed
// keyword rules and extracts a one-line summary from it.
package classifier

import (
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/teammem/internal/core"
)

// minClassifiableLen is measured on trimmed text, in runes.
const minClassifiableLen = 10

type rule struct {
	typ      core.MemoryType
	keywords []string
}

// Evaluated in order, first match wins.
var priorityRules = []rule{
	{core.TypeDecision, []string{"decided", "decision", "choose", "agree", "conclusion"}},
	{core.TypeBlocker, []string{"blocked", "blocker", "issue", "problem", "impediment"}},
	{core.TypeMilestone, []string{"complete", "milestone", "finished", "released"}},
	{core.TypeQuestion, []string{"?", "how", "what", "when", "why", "where"}},
	{core.TypeAnswer, []string{"answer", "solution", "resolved", "fixed"}},
}

// Priority is the classifier used for ingestion.
type Priority struct{}

func NewPriority() *Priority {
	return &Priority{}
}

func (Priority) Classify(text string) core.MemoryType {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minClassifiableLen {
		return core.TypeStatusUpdate
	}

	lower := strings.ToLower(trimmed)
	for _, r := range priorityRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.typ
			}
		}
	}
	return core.TypeStatusUpdate
}
