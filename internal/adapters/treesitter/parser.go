// Package treesitter parses JavaScript and TypeScript sources into jsast
// programs using tree-sitter grammars.
//
// The javascript, typescript and tsx grammars are compiled in via CGo. A lean
// build (-tags lean) compiles none of them and loads the grammars from shared
// libraries through the DynamicLoader (purego) instead.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/atomtx/internal/domain/jsast"
)

var (
	// ErrSyntax is wrapped when the source does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is returned for files no grammar is registered for.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrFileTooLarge is returned for sources above MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidContent is returned for sources that are not valid UTF-8.
	ErrInvalidContent = errors.New("source is not valid UTF-8")
)

// MaxFileSize bounds the sources the parser accepts.
const MaxFileSize = 10 * 1024 * 1024

// Parser turns source files into jsast programs. It is safe for concurrent
// use; each ParseFile call creates its own tree-sitter parser.
type Parser struct {
	mu        sync.RWMutex
	languages map[string]*tree_sitter.Language // lang name -> language
	extToLang map[string]string                // extension -> lang name
	loader    *DynamicLoader                   // optional: loads grammars from .so/.dylib
}

// NewParser creates a parser with the built-in grammars registered.
func NewParser() *Parser {
	p := &Parser{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p.registerBuiltinLanguages()
	p.registerExtensions()
	return p
}

// addLang registers a language by name.
func (p *Parser) addLang(name string, lang *tree_sitter.Language) {
	if lang != nil {
		p.languages[name] = lang
	}
}

// addExt maps file extensions to a language name.
func (p *Parser) addExt(lang string, exts ...string) {
	for _, ext := range exts {
		p.extToLang[ext] = lang
	}
}

// ParseFile parses source as the language its path implies.
func (p *Parser) ParseFile(ctx context.Context, filePath string, source []byte) (*jsast.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s canceled before start: %w", filePath, err)
	}
	langName := p.detectLanguage(filePath)
	if langName == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filePath)
	}
	lang, err := p.language(langName)
	if err != nil {
		return nil, err
	}
	if len(source) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, filePath, len(source))
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContent, filePath)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", langName, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter parse of %s returned no tree", filePath)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s canceled after tree-sitter: %w", filePath, err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(filePath, root)
	}
	return convertProgram(root, source), nil
}

// language returns the grammar for langName, loading it dynamically when it
// is not compiled in.
func (p *Parser) language(langName string) (*tree_sitter.Language, error) {
	p.mu.RLock()
	lang, ok := p.languages[langName]
	loader := p.loader
	p.mu.RUnlock()
	if ok {
		return lang, nil
	}
	if loader == nil {
		return nil, fmt.Errorf("%w: no %s grammar available", ErrUnsupported, langName)
	}
	loaded, err := loader.LoadGrammar(langName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	p.mu.Lock()
	p.languages[langName] = loaded
	p.mu.Unlock()
	return loaded, nil
}

// syntaxError locates the first error or missing node below root.
func syntaxError(filePath string, root *tree_sitter.Node) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	what := "unexpected " + bad.Kind()
	if bad.IsMissing() {
		what = "missing " + bad.Kind()
	} else if bad.IsError() {
		what = "unexpected input"
	}
	return fmt.Errorf("%w: %s:%d:%d: %s", ErrSyntax, filePath, pos.Row+1, pos.Column+1, what)
}

func firstError(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// SupportsFile reports whether the parser recognizes the file's extension.
// Declaration files (.d.ts) are never supported.
func (p *Parser) SupportsFile(filePath string) bool {
	return IsSourceFile(filePath) && p.detectLanguage(filePath) != ""
}

// SupportedExtensions returns all registered file extensions.
func (p *Parser) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extToLang))
	for ext := range p.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

// SetGrammarPaths configures the parser to load grammars from shared
// libraries found in the given directories. A grammar found this way replaces
// nothing that is compiled in; it only fills gaps.
func (p *Parser) SetGrammarPaths(paths []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loader = NewDynamicLoader(paths)
}

// Loader returns the dynamic grammar loader, or nil if not configured.
func (p *Parser) Loader() *DynamicLoader {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loader
}

// HasLanguage reports whether a grammar is available, compiled in or
// loadable.
func (p *Parser) HasLanguage(lang string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.languages[lang]; ok {
		return true
	}
	if p.loader != nil {
		return p.loader.GrammarPath(lang) != ""
	}
	return false
}

// detectLanguage determines the language from the file path.
func (p *Parser) detectLanguage(filePath string) string {
	return p.extToLang[strings.ToLower(filepath.Ext(filePath))]
}
