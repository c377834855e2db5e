// Package app wires the atomtx components together: the tree-sitter parser,
// the bbolt transform cache, the prefilter and the rewrite passes. The CLI
// builds one App per invocation.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/corey/atomtx/internal/adapters/bbolt"
	"github.com/corey/atomtx/internal/domain/rewrite"
	"github.com/corey/atomtx/internal/domain/status"
	"github.com/corey/atomtx/internal/ports"
)

// App is the dependency container for one CLI invocation.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Store       *bbolt.Store // nil when caching is disabled
	Parser      ports.Parser
	Transformer *Transformer
}

// Config holds the settings for creating an App.
type Config struct {
	ProjectRoot string
	RawConfig   string // plugin JSON (default "{}")
	Passes      []rewrite.PassName
	Jobs        int
	NoCache     bool         // skip opening .atomtx/cache.db
	DBPath      string       // path to bbolt file (default: .atomtx/cache.db)
	Parser      ports.Parser // required
}

// New creates an App with all dependencies wired. The plugin configuration is
// validated before the cache is opened.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	if cfg.Parser == nil {
		return nil, fmt.Errorf("parser required")
	}
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	paths := NewPaths(root)
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	tc := TransformerConfig{
		ProjectRoot: root,
		RawConfig:   cfg.RawConfig,
		Passes:      cfg.Passes,
		Parser:      cfg.Parser,
		Jobs:        cfg.Jobs,
	}
	if _, err := NewTransformer(tc); err != nil {
		return nil, err
	}

	var store *bbolt.Store
	if !cfg.NoCache {
		if err := paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("create %s: %w", paths.Root, err)
		}
		store, err = bbolt.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		tc.Cache = store
	}

	tr, err := NewTransformer(tc)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &App{
		ProjectRoot: root,
		Paths:       paths,
		Store:       store,
		Parser:      cfg.Parser,
		Transformer: tr,
	}, nil
}

// Close releases the cache database.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// WriteStatus records the outcome of a run in .atomtx/status.json.
// Failures are logged, never returned.
func (a *App) WriteStatus(command string, outcomes []FileOutcome, elapsed time.Duration) *status.StatusData {
	files := make([]status.FileStatus, len(outcomes))
	for i, o := range outcomes {
		files[i] = o.Status(a.Transformer)
	}
	data := status.Generate(command, a.Transformer.PassNames(), files)
	data.DurationMs = elapsed.Milliseconds()
	data.FinishedAt = time.Now().Unix()

	if err := a.Paths.EnsureDirs(); err != nil {
		slog.Warn("status dir", slog.String("error", err.Error()))
		return data
	}
	if err := status.WriteJSON(a.Paths.Status, data); err != nil {
		slog.Warn("write status", slog.String("path", a.Paths.Status), slog.String("error", err.Error()))
	}
	return data
}

// Status converts an outcome to its status-file record.
func (o FileOutcome) Status(t *Transformer) status.FileStatus {
	fs := status.FileStatus{Path: t.KeyPath(o.Path)}
	if o.Err != nil {
		fs.Err = o.Err.Error()
		return fs
	}
	if r := o.Result; r != nil {
		fs.Path = r.Path
		fs.Changed = r.Changed
		fs.Cached = r.Cached
		fs.Skipped = r.Skipped
		fs.Rewrites = len(r.Rewrites)
	}
	return fs
}
