package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corey/atomtx/internal/domain/jsast"
	"github.com/corey/atomtx/internal/ports"
)

// =============================================================================
// Test fixtures
// Expectation: Fake parser, in-memory cache and file helpers shared by app tests.
// =============================================================================

// atomSource is what fakeParser "parses" any source mentioning atom( into.
const atomSource = "import { atom } from \"jotai\";\nconst countAtom = atom(0);\n"

var errFakeSyntax = errors.New("syntax error")

// fakeParser turns sources into a fixed program: an atom module when the
// source calls atom(, an empty program otherwise. Sources containing
// "SYNTAX" fail.
type fakeParser struct {
	calls atomic.Int32
}

var _ ports.Parser = (*fakeParser)(nil)

func (p *fakeParser) ParseFile(ctx context.Context, filePath string, source []byte) (*jsast.Program, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src := string(source)
	if strings.Contains(src, "SYNTAX") {
		return nil, errFakeSyntax
	}
	if !strings.Contains(src, "atom(") {
		return &jsast.Program{}, nil
	}
	imp := &jsast.SImport{
		HasClause: true,
		Items:     []jsast.ImportItem{{Imported: "atom", Local: "atom"}},
		Source:    jsast.EString{Value: "jotai"},
	}
	return &jsast.Program{Items: []jsast.Stmt{
		{Data: imp},
		jsast.Const("countAtom", jsast.Call(jsast.Ident("atom"), jsast.Expr{Data: &jsast.ENumber{Raw: "0"}})),
	}}, nil
}

func (p *fakeParser) SupportsFile(filePath string) bool {
	switch filepath.Ext(filePath) {
	case ".js", ".ts", ".tsx":
		return !strings.HasSuffix(filePath, ".d.ts")
	}
	return false
}

// memCache is an in-memory ports.Cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*ports.CacheEntry
	failGet bool
	failPut bool
	puts    int
}

var _ ports.Cache = (*memCache)(nil)

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*ports.CacheEntry)}
}

func (c *memCache) Get(key string) (*ports.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("get failed")
	}
	return c.entries[key], nil
}

func (c *memCache) Put(key string, e *ports.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failPut {
		return errors.New("put failed")
	}
	c.puts++
	c.entries[key] = e
	return nil
}

func (c *memCache) Stats() (ports.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ports.CacheStats{Entries: len(c.entries)}, nil
}

func (c *memCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*ports.CacheEntry)
	return nil
}

// writeFile creates root/rel with content and returns the absolute path.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func newTestTransformer(t *testing.T, root string, cache ports.Cache) (*Transformer, *fakeParser) {
	t.Helper()
	parser := &fakeParser{}
	tr, err := NewTransformer(TransformerConfig{
		ProjectRoot: root,
		Parser:      parser,
		Cache:       cache,
		Jobs:        2,
	})
	require.NoError(t, err)
	return tr, parser
}
