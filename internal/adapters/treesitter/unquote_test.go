package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// String literal decoding
// Expectation: Escapes decode the way a JS engine reads them.
// =============================================================================

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"q\"q"`, `q"q`},
		{`'it\'s'`, "it's"},
		{`"back\\slash"`, `back\slash`},
		{`"\x41"`, "A"},
		{"\"\u00e9\"", "\u00e9"},
		{`"\u{1F600}"`, "\U0001F600"},
		{"\"\U0001F600\"", "\U0001F600"},
		{`"\uD83D"`, "\uFFFD"},
		{"\"line\\\ncont\"", "linecont"},
		{`"\q"`, "q"},
		{`"\xZZ"`, `\xZZ`},
		{`"\u{}"`, `\u{}`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, unquote(tt.raw))
		})
	}
}
