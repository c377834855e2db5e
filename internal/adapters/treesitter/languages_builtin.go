//go:build !lean

package treesitter

// This file registers the compiled-in grammars. It is included in the default
// build (go build / go install) but excluded when building with -tags lean,
// which produces a binary that loads grammars dynamically from .so/.dylib files.

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// registerBuiltinLanguages registers the javascript, typescript and tsx grammars.
func (p *Parser) registerBuiltinLanguages() {
	p.addLang(LangJavaScript, tree_sitter.NewLanguage(ts_javascript.Language()))
	p.addLang(LangTypeScript, tree_sitter.NewLanguage(ts_typescript.LanguageTypescript()))
	p.addLang(LangTSX, tree_sitter.NewLanguage(ts_typescript.LanguageTSX()))
}
