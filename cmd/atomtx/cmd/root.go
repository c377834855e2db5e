package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/atomtx/internal/app"
	"github.com/corey/atomtx/internal/domain/rewrite"
)

// Flags shared by every command that transforms sources.
var (
	rootDir        string
	verbose        bool
	configJSON     string
	configFile     string
	passFlags      []string
	jobs           int
	noCache        bool
	grammarDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "atomtx",
	Short: "Jotai atom debug labels and hot-reload caching",
	Long: "Rewrites JavaScript and TypeScript sources so Jotai atoms carry a debugLabel\n" +
		"and survive hot reloads through globalThis.jotaiAtomCache.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootDir, "root", "", "Project root (default: current directory)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	f.StringVar(&configJSON, "config", "", `Plugin configuration as JSON, e.g. {"atomNames":["customAtom"]}`)
	f.StringVar(&configFile, "config-file", "", "Read the plugin configuration from a JSON file")
	f.StringArrayVar(&passFlags, "pass", nil, "Pass to run: debug-label or refresh (repeatable, default both)")
	f.IntVarP(&jobs, "jobs", "j", 0, "Parallel workers (default: number of CPUs)")
	f.BoolVar(&noCache, "no-cache", false, "Do not read or write .atomtx/cache.db")
	f.StringVar(&grammarDirFlag, "grammar-dir", "", "Extra directory holding grammar shared libraries")

	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(grammarCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// projectRoot returns the project root (--root, or cwd by default).
func projectRoot() string {
	if rootDir != "" {
		abs, err := filepath.Abs(rootDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return abs
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// rawConfig resolves --config and --config-file. They are mutually exclusive.
func rawConfig() (string, error) {
	if configJSON != "" && configFile != "" {
		return "", fmt.Errorf("use either --config or --config-file, not both")
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return "", fmt.Errorf("read config: %w", err)
		}
		return string(data), nil
	}
	if strings.TrimSpace(configJSON) == "" {
		return app.DefaultRawConfig, nil
	}
	return configJSON, nil
}

// passes resolves --pass flags, keeping their order.
func passes() ([]rewrite.PassName, error) {
	if len(passFlags) == 0 {
		return rewrite.AllPasses, nil
	}
	var out []rewrite.PassName
	seen := make(map[rewrite.PassName]bool)
	for _, name := range passFlags {
		p, err := rewrite.ParsePass(name)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// grammarDir returns --grammar-dir, or the project grammar directory.
func grammarDir(root string) string {
	if grammarDirFlag != "" {
		return grammarDirFlag
	}
	return app.NewPaths(root).GrammarsDir
}

// openApp builds the App from the shared flags.
func openApp() (*app.App, error) {
	root := projectRoot()
	parser := newParser(grammarDir(root))
	if parser == nil {
		return nil, fmt.Errorf("atomtx needs tree-sitter: rebuild with CGO_ENABLED=1")
	}
	raw, err := rawConfig()
	if err != nil {
		return nil, err
	}
	ps, err := passes()
	if err != nil {
		return nil, err
	}

	a, err := app.New(app.Config{
		ProjectRoot: root,
		RawConfig:   raw,
		Passes:      ps,
		Jobs:        jobs,
		NoCache:     noCache,
		Parser:      parser,
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("cannot open cache: %s", diagnoseDBLock(root))
		}
		return nil, err
	}
	return a, nil
}
