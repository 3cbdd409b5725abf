// Package tokens counts and trims text by cl100k tokens.
//
// The encoding is loaded once on first use. When it cannot be loaded (the
// BPE ranks are fetched over the network on a cold cache) counting falls back
// to an estimate of four bytes per token.
package tokens

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func tokenizer() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding(encodingName)
	})
	return tk, tkErr
}

// Available reports whether the real encoder is loaded.
func Available() bool {
	_, err := tokenizer()
	return err == nil
}

func Count(text string) int {
	if text == "" {
		return 0
	}
	enc, err := tokenizer()
	if err != nil {
		return estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate keeps at most maxTokens tokens of text. The result never splits a
// UTF-8 sequence. maxTokens <= 0 disables the limit.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 || text == "" {
		return text
	}

	enc, err := tokenizer()
	if err != nil {
		limit := maxTokens * 4
		if len(text) <= limit {
			return text
		}
		return strings.ToValidUTF8(cutBytes(text, limit), "")
	}

	ids := enc.Encode(text, nil, nil)
	if len(ids) <= maxTokens {
		return text
	}
	return strings.ToValidUTF8(enc.Decode(ids[:maxTokens]), "")
}

func estimate(text string) int {
	n := (len(text) + 3) / 4
	if n == 0 {
		n = 1
	}
	return n
}

func cutBytes(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
