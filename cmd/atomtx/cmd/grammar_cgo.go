//go:build cgo

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/atomtx/internal/adapters/treesitter"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect tree-sitter grammars",
	Long: "Lists the JavaScript and TypeScript grammars compiled into this binary and the\n" +
		"shared libraries (" + treesitter.LibFileName("<lang>") + ") found in the grammar search paths.",
}

var grammarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available grammars",
	Args:  cobra.NoArgs,
	RunE:  runGrammarList,
}

var grammarPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show grammar search paths",
	Args:  cobra.NoArgs,
	RunE:  runGrammarPath,
}

func init() {
	grammarCmd.AddCommand(grammarListCmd)
	grammarCmd.AddCommand(grammarPathCmd)
}

func runGrammarList(cmd *cobra.Command, args []string) error {
	builtin := treesitter.NewParser()
	loader := treesitter.NewDynamicLoader(treesitter.DefaultGrammarPaths(grammarDir(projectRoot())))

	fmt.Printf("%s⚡ grammars%s\n", colorBold, colorReset)
	for _, lang := range treesitter.Languages() {
		var state string
		switch {
		case builtin.HasLanguage(lang):
			state = fmt.Sprintf("%s✓ compiled in%s", colorGreen, colorReset)
		case loader.GrammarPath(lang) != "":
			state = fmt.Sprintf("%s✓ %s%s", colorGreen, loader.GrammarPath(lang), colorReset)
		default:
			state = fmt.Sprintf("%s✗ missing%s", colorYellow, colorReset)
		}
		fmt.Printf("  %-12s %s  %s%s%s\n", lang, state, colorGray, strings.Join(extensionsFor(builtin, lang), " "), colorReset)
	}
	return nil
}

func runGrammarPath(cmd *cobra.Command, args []string) error {
	fmt.Printf("%s⚡ grammar search paths%s\n", colorBold, colorReset)
	for _, dir := range treesitter.DefaultGrammarPaths(grammarDir(projectRoot())) {
		mark := colorYellow + "✗" + colorReset
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			mark = colorGreen + "✓" + colorReset
		}
		fmt.Printf("  %s %s\n", mark, dir)
	}
	return nil
}

// extensionsFor returns the registered extensions parsed with lang.
func extensionsFor(p *treesitter.Parser, lang string) []string {
	var out []string
	for _, ext := range p.SupportedExtensions() {
		if treesitter.LanguageForPath("x"+ext) == lang {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}
