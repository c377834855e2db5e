//go:build cgo

package cmd

import (
	"github.com/corey/atomtx/internal/adapters/treesitter"
	"github.com/corey/atomtx/internal/ports"
)

// newParser returns a tree-sitter parser when CGo is available.
// Grammars missing from the build are loaded from grammarDir and the
// global grammar directory.
func newParser(grammarDir string) ports.Parser {
	p := treesitter.NewParser()
	p.SetGrammarPaths(treesitter.DefaultGrammarPaths(grammarDir))
	return p
}
