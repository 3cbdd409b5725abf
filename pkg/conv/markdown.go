// Package conv turns generated Markdown into what chat clients accept.
package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var telegramPolicy = newTelegramPolicy()

// https://core.telegram.org/bots/api#html-style
func newTelegramPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class").OnElements("code")
	return p
}

func render(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.Render(p.Parse(md), r)
}

// MarkdownToTelegramHTML renders md and keeps only the tags Telegram's HTML
// parse mode understands. Other tags are dropped, their text stays.
func MarkdownToTelegramHTML(md []byte) string {
	return string(telegramPolicy.SanitizeBytes(render(md)))
}

// MarkdownToPlain renders md as plain text with links dropped. Used when a
// client rejects the formatted version.
func MarkdownToPlain(md []byte) (string, error) {
	return html2text.FromString(string(render(md)), html2text.Options{OmitLinks: true})
}

// Split cuts text into pieces of at most maxLen bytes, preferring a newline
// in the last two thirds of each window. Pieces are trimmed.
func Split(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for len(text) > maxLen {
		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
