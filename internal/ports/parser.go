package ports

import (
	"context"

	"github.com/corey/atomtx/internal/domain/jsast"
)

// Parser turns a source file into the syntax tree the rewrite passes work on.
// The concrete implementation (tree-sitter) lives in internal/adapters/treesitter.
type Parser interface {
	// ParseFile parses source as the language its path implies. Sources that
	// do not parse cleanly return an error; nothing is ever partially rewritten.
	ParseFile(ctx context.Context, filePath string, source []byte) (*jsast.Program, error)

	// SupportsFile reports whether the parser handles the file's extension.
	SupportsFile(filePath string) bool
}

// Prefilter decides cheaply whether a source could contain anything a pass
// rewrites. A file the prefilter rejects is returned untouched without being
// parsed. The adapter (Aho-Corasick) is built once per configuration.
type Prefilter interface {
	// Mentions returns the distinct words found in content, or nil.
	Mentions(content []byte) []string
}
