package conv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "bold", in: "**Decision**", want: "<strong>Decision</strong>\n"},
		{name: "inline code", in: "run `make lint`", want: "run <code>make lint</code>\n"},
		{name: "fenced code keeps language", in: "```sql\nselect 1;\n```", want: "<pre><code class=\"language-sql\">select 1;\n</code></pre>\n"},
		{name: "link drops target", in: "[adr](https://example.com/adr)", want: "<a href=\"https://example.com/adr\">adr</a>\n"},
		{name: "heading tag stripped", in: "# Answer", want: "Answer\n"},
		{name: "script removed", in: "<script>alert(1)</script>", want: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToTelegramHTML([]byte(tt.in)))
		})
	}
}

func TestMarkdownToPlain(t *testing.T) {
	out, err := MarkdownToPlain([]byte("**We chose** Postgres, see [adr](https://example.com/adr)."))
	require.NoError(t, err)
	assert.Contains(t, out, "We chose")
	assert.Contains(t, out, "Postgres")
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "https://example.com")
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split("  \n ", 10))
	assert.Equal(t, []string{"short"}, Split("short", 10))

	t.Run("prefers newline", func(t *testing.T) {
		got := Split("aaaaaa\nbbbbbb", 10)
		assert.Equal(t, []string{"aaaaaa", "bbbbbb"}, got)
	})

	t.Run("hard cut without newline", func(t *testing.T) {
		got := Split(strings.Repeat("x", 25), 10)
		assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, got)
	})

	t.Run("newline too early is ignored", func(t *testing.T) {
		got := Split("ab\n"+strings.Repeat("y", 20), 10)
		require.Len(t, got, 3)
		assert.Equal(t, "ab\nyyyyyyy", got[0])
		for _, c := range got {
			assert.LessOrEqual(t, len(c), 10)
		}
	})
}
