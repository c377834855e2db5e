package treesitter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// DynamicLoader loads tree-sitter grammars from shared libraries (.so on Linux,
// .dylib on macOS) using purego. Loaded languages are cached for reuse.
type DynamicLoader struct {
	searchPaths []string
	mu          sync.Mutex
	loaded      map[string]*tree_sitter.Language
	handles     []uintptr
}

// NewDynamicLoader creates a loader that searches the given paths for grammar
// shared libraries. Paths are searched in order; first match wins.
func NewDynamicLoader(searchPaths []string) *DynamicLoader {
	return &DynamicLoader{
		searchPaths: searchPaths,
		loaded:      make(map[string]*tree_sitter.Language),
	}
}

// DefaultGrammarPaths returns the project grammar directory followed by the
// global one (~/.atomtx/grammars/).
func DefaultGrammarPaths(projectGrammarDir string) []string {
	var paths []string
	if projectGrammarDir != "" {
		paths = append(paths, projectGrammarDir)
	}
	if global := GlobalGrammarDir(); global != "" {
		paths = append(paths, global)
	}
	return paths
}

// GlobalGrammarDir returns ~/.atomtx/grammars, or "" without a home directory.
func GlobalGrammarDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".atomtx", "grammars")
}

// LibExtension returns the shared library extension for the current platform.
func LibExtension() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}

// CSymbolName returns the C function exporting a grammar: tree_sitter_{name}.
func CSymbolName(lang string) string {
	return "tree_sitter_" + strings.ReplaceAll(lang, "-", "_")
}

// LibFileName returns the shared library file name expected for a grammar.
func LibFileName(lang string) string {
	return lang + LibExtension()
}

// find returns the first search path holding the grammar library, or "".
func (dl *DynamicLoader) find(lang string) string {
	name := LibFileName(lang)
	for _, dir := range dl.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadGrammar loads a grammar from a shared library. Results are cached;
// subsequent calls for the same language return the cached value.
func (dl *DynamicLoader) LoadGrammar(lang string) (*tree_sitter.Language, error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	if cached, ok := dl.loaded[lang]; ok {
		return cached, nil
	}

	libPath := dl.find(lang)
	if libPath == "" {
		return nil, fmt.Errorf("grammar %q: %s not found in %s", lang, LibFileName(lang), strings.Join(dl.searchPaths, ", "))
	}

	handle, err := purego.Dlopen(libPath, purego.RTLD_LAZY)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: dlopen %s: %w", lang, libPath, err)
	}
	dl.handles = append(dl.handles, handle)

	symName := CSymbolName(lang)
	var langFunc func() uintptr
	purego.RegisterLibFunc(&langFunc, handle, symName)

	ptr := langFunc()
	if ptr == 0 {
		return nil, fmt.Errorf("grammar %q: %s() returned null", lang, symName)
	}

	// ptr is a static TSLanguage* owned by the shared library, never moved by the GC.
	language := tree_sitter.NewLanguage(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)))
	dl.loaded[lang] = language
	return language, nil
}

// GrammarPath returns the path to the shared library for a language, or "" if not found.
func (dl *DynamicLoader) GrammarPath(lang string) string {
	return dl.find(lang)
}

// InstalledGrammars returns the handled languages found in the search paths.
func (dl *DynamicLoader) InstalledGrammars() []string {
	var names []string
	for _, lang := range Languages() {
		if dl.find(lang) != "" {
			names = append(names, lang)
		}
	}
	return names
}

// Close forgets loaded grammars.
func (dl *DynamicLoader) Close() {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.handles = nil
	dl.loaded = make(map[string]*tree_sitter.Language)
}

// SearchPaths returns the configured search paths.
func (dl *DynamicLoader) SearchPaths() []string {
	return dl.searchPaths
}
