package treesitter

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Grammar loader
// Expectation: Grammars are found on the search paths by symbol name and library extension.
// =============================================================================

func touch(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestCSymbolName(t *testing.T) {
	assert.Equal(t, "tree_sitter_javascript", CSymbolName(LangJavaScript))
	assert.Equal(t, "tree_sitter_typescript", CSymbolName(LangTypeScript))
	assert.Equal(t, "tree_sitter_tsx", CSymbolName(LangTSX))
	assert.Equal(t, "tree_sitter_some_lang", CSymbolName("some-lang"))
}

func TestLibExtension(t *testing.T) {
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, ".dylib", LibExtension())
	default:
		assert.Equal(t, ".so", LibExtension())
	}
	assert.Equal(t, "tsx"+LibExtension(), LibFileName("tsx"))
}

func TestDefaultGrammarPaths(t *testing.T) {
	paths := DefaultGrammarPaths("/project/.atomtx/grammars")
	require.NotEmpty(t, paths)
	assert.Equal(t, "/project/.atomtx/grammars", paths[0])

	if home, err := os.UserHomeDir(); err == nil {
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(home, ".atomtx", "grammars"), paths[1])

		only := DefaultGrammarPaths("")
		assert.Equal(t, []string{filepath.Join(home, ".atomtx", "grammars")}, only)
	}
}

func TestDynamicLoader_NotFound(t *testing.T) {
	dl := NewDynamicLoader([]string{"/nonexistent/path"})
	_, err := dl.LoadGrammar(LangJavaScript)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in /nonexistent/path")
	assert.Equal(t, "", dl.GrammarPath(LangJavaScript))
}

func TestDynamicLoader_GrammarPathAndPriority(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	first := filepath.Join(dir1, LibFileName(LangTypeScript))
	touch(t, first)
	touch(t, filepath.Join(dir2, LibFileName(LangTypeScript)))
	touch(t, filepath.Join(dir2, LibFileName(LangTSX)))

	dl := NewDynamicLoader([]string{dir1, dir2})
	assert.Equal(t, first, dl.GrammarPath(LangTypeScript), "first search path wins")
	assert.Equal(t, filepath.Join(dir2, LibFileName(LangTSX)), dl.GrammarPath(LangTSX))
	assert.Equal(t, "", dl.GrammarPath(LangJavaScript))
	assert.Equal(t, []string{LangTypeScript, LangTSX}, dl.InstalledGrammars())
}

func TestDynamicLoader_InstalledGrammarsIgnoresOtherLibraries(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, LibFileName("python")))
	touch(t, filepath.Join(dir, LibFileName(LangJavaScript)))

	dl := NewDynamicLoader([]string{dir})
	assert.Equal(t, []string{LangJavaScript}, dl.InstalledGrammars())
}

func TestDynamicLoader_Close(t *testing.T) {
	dl := NewDynamicLoader([]string{"/tmp"})
	dl.Close()
	assert.Empty(t, dl.loaded)
	assert.Nil(t, dl.handles)
	assert.Equal(t, []string{"/tmp"}, dl.SearchPaths())
}

func TestParser_SetGrammarPaths(t *testing.T) {
	p := NewParser()
	assert.Nil(t, p.Loader())

	p.SetGrammarPaths([]string{"/tmp/grammars"})
	require.NotNil(t, p.Loader())
	assert.Equal(t, []string{"/tmp/grammars"}, p.Loader().SearchPaths())
}

func TestParser_HasLanguage_WithLoader(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, LibFileName("flow")))

	p := NewParser()
	assert.False(t, p.HasLanguage("flow"))
	p.SetGrammarPaths([]string{dir})
	assert.True(t, p.HasLanguage("flow"))
	assert.False(t, p.HasLanguage("nonexistent"))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, LangJavaScript, LanguageForPath("src/a.mjs"))
	assert.Equal(t, LangTypeScript, LanguageForPath("src/A.TS"))
	assert.Equal(t, LangTSX, LanguageForPath("App.tsx"))
	assert.Equal(t, "", LanguageForPath("README.md"))

	assert.True(t, IsSourceFile("atoms.ts"))
	assert.False(t, IsSourceFile("types.d.ts"))
	assert.False(t, IsSourceFile("styles.css"))
}
