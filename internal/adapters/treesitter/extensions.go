package treesitter

import (
	"path/filepath"
	"strings"
)

// Language names double as the base names of dynamically loaded grammars.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

// extensions maps every handled extension to its grammar. This is always
// compiled in, regardless of build tags: lean builds need it to know which
// grammar to load.
var extensions = map[string]string{
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

// Languages returns the handled grammars.
func Languages() []string {
	return []string{LangJavaScript, LangTypeScript, LangTSX}
}

func (p *Parser) registerExtensions() {
	for ext, lang := range extensions {
		p.addExt(lang, ext)
	}
}

// LanguageForPath returns the grammar a file would be parsed with, or "".
// It needs no Parser instance.
func LanguageForPath(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// IsSourceFile reports whether path has a handled extension. Declaration
// files (.d.ts) contain no runtime code and are excluded.
func IsSourceFile(path string) bool {
	if strings.HasSuffix(strings.ToLower(path), ".d.ts") {
		return false
	}
	return LanguageForPath(path) != ""
}
