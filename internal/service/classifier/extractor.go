package classifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/teammem/internal/core"
)

const maxSummaryLen = 100

// Extractor turns a raw chat message into a one-sentence summary.
type Extractor struct {
	maxLen int
}

func NewExtractor() *Extractor {
	return &Extractor{maxLen: maxSummaryLen}
}

// Summarize returns core.ErrNothingToExtract for text that is too short to
// carry knowledge.
func (e *Extractor) Summarize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minClassifiableLen {
		return "", core.ErrNothingToExtract
	}

	first, _, _ := strings.Cut(text, ".")
	first = strings.TrimSpace(first)
	if first == "" {
		return "", core.ErrNothingToExtract
	}

	runes := []rune(first)
	if len(runes) > e.maxLen {
		return strings.TrimSpace(string(runes[:e.maxLen])) + "...", nil
	}
	return first + ".", nil
}

// Normalize flattens HTML-formatted messages (rich chat exports, forwarded
// mail) to plain text. Anything else is returned trimmed.
func Normalize(text string) (string, error) {
	if !looksLikeHTML(text) {
		return strings.TrimSpace(text), nil
	}
	plain, err := html2text.FromString(text, html2text.Options{OmitLinks: true})
	if err != nil {
		return "", fmt.Errorf("failed to convert html message: %w", err)
	}
	return strings.TrimSpace(plain), nil
}

func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	for _, tag := range []string{"<p", "<br", "<div", "<b>", "<i>", "<a ", "<span", "<ul", "<li"} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}
