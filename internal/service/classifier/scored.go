package classifier

import (
	"strings"

	"github.com/sandevgo/teammem/internal/core"
)

// Enumeration order breaks ties: an earlier type keeps the lead on equal score.
var scoredRules = []rule{
	{core.TypeDecision, []string{"decided", "decision", "choose", "selected", "agreed", "conclusion"}},
	{core.TypeBlocker, []string{"blocked", "blocker", "issue", "problem", "impediment", "stuck", "delayed"}},
	{core.TypeStatusUpdate, []string{"update", "status", "progress", "completed", "working on", "started"}},
	{core.TypeMilestone, []string{"milestone", "achieved", "finished", "released", "shipped", "launched"}},
	{core.TypeQuestion, []string{"?", "how", "what", "when", "why", "where", "who", "which", "can", "could"}},
	{core.TypeAnswer, []string{"answer", "solution", "resolved", "fixed", "solved"}},
}

// Scored picks the type with the most keyword occurrences.
type Scored struct{}

func NewScored() *Scored {
	return &Scored{}
}

func (Scored) Classify(text string) core.MemoryType {
	lower := strings.ToLower(text)

	best, bestScore := core.TypeStatusUpdate, 0
	for _, r := range scoredRules {
		score := 0
		for _, kw := range r.keywords {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best, bestScore = r.typ, score
		}
	}
	return best
}

// Scores exposes the per-type counts, mostly for debugging classification.
func (Scored) Scores(text string) map[core.MemoryType]int {
	lower := strings.ToLower(text)
	scores := make(map[core.MemoryType]int, len(scoredRules))
	for _, r := range scoredRules {
		for _, kw := range r.keywords {
			scores[r.typ] += strings.Count(lower, kw)
		}
	}
	return scores
}
