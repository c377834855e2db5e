package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corey/atomtx/internal/adapters/ahocorasick"
	"github.com/corey/atomtx/internal/domain/binding"
	"github.com/corey/atomtx/internal/domain/config"
	"github.com/corey/atomtx/internal/domain/printer"
	"github.com/corey/atomtx/internal/domain/rewrite"
	"github.com/corey/atomtx/internal/ports"
)

// Version is mixed into every cache key. Bump it when rewrite output changes.
const Version = "atomtx/1"

// DefaultRawConfig is used when no plugin configuration is given.
const DefaultRawConfig = "{}"

// TransformerConfig holds the dependencies of a Transformer.
type TransformerConfig struct {
	ProjectRoot string
	RawConfig   string             // plugin JSON; empty means DefaultRawConfig
	Passes      []rewrite.PassName // default: rewrite.AllPasses
	Parser      ports.Parser       // required
	Cache       ports.Cache        // optional
	Prefilter   ports.Prefilter    // default: matcher over "jotai" and atomNames
	Jobs        int                // worker count for TransformPaths, default NumCPU
}

// Transformer runs the rewrite passes over source files.
// Safe for concurrent use.
type Transformer struct {
	root      string
	cfg       config.Config
	passes    []rewrite.PassName
	parser    ports.Parser
	cache     ports.Cache
	prefilter ports.Prefilter
	jobs      int
	now       func() time.Time
}

// Result is the outcome of transforming one file.
type Result struct {
	Path     string // project-relative key path
	Output   []byte
	Changed  bool
	Cached   bool // served from the transform cache
	Skipped  bool // rejected by the prefilter, Output is the source
	Rewrites []rewrite.Rewrite
	Preamble bool
}

// FileOutcome pairs an input path with its result or error.
type FileOutcome struct {
	Path   string
	Result *Result
	Err    error
}

// NewTransformer validates the plugin configuration and passes.
// A configuration error wraps config.ErrInvalid.
func NewTransformer(tc TransformerConfig) (*Transformer, error) {
	if tc.Parser == nil {
		return nil, errors.New("parser required")
	}
	raw := tc.RawConfig
	if strings.TrimSpace(raw) == "" {
		raw = DefaultRawConfig
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		return nil, err
	}

	passes := tc.Passes
	if len(passes) == 0 {
		passes = rewrite.AllPasses
	}
	for _, p := range passes {
		if _, err := rewrite.ParsePass(string(p)); err != nil {
			return nil, err
		}
	}

	prefilter := tc.Prefilter
	if prefilter == nil {
		keywords := append([]string{binding.PackagePrefix}, cfg.AtomNames...)
		prefilter = ahocorasick.NewMatcher(keywords)
	}

	jobs := tc.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	root := tc.ProjectRoot
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}

	return &Transformer{
		root:      root,
		cfg:       cfg,
		passes:    passes,
		parser:    tc.Parser,
		cache:     tc.Cache,
		prefilter: prefilter,
		jobs:      jobs,
		now:       time.Now,
	}, nil
}

// Config returns the parsed plugin configuration.
func (t *Transformer) Config() config.Config { return t.cfg }

// Passes returns the enabled passes in run order.
func (t *Transformer) Passes() []rewrite.PassName { return t.passes }

// PassNames returns the enabled passes as strings.
func (t *Transformer) PassNames() []string {
	names := make([]string, len(t.passes))
	for i, p := range t.passes {
		names[i] = string(p)
	}
	return names
}

// KeyPath returns the path used for cache keys and labels: relative to the
// project root when filePath lies below it, filePath unchanged otherwise.
func (t *Transformer) KeyPath(filePath string) string {
	if t.root == "" || !filepath.IsAbs(filePath) {
		return filePath
	}
	rel, err := filepath.Rel(t.root, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filePath
	}
	return rel
}

// TransformFile rewrites one source. Unchanged sources are returned
// byte-identical.
func (t *Transformer) TransformFile(ctx context.Context, filePath string, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keyPath := t.KeyPath(filePath)

	var key string
	if t.cache != nil {
		key = t.cacheKey(keyPath, source)
		entry, err := t.cache.Get(key)
		if err != nil {
			slog.Warn("cache lookup failed", slog.String("path", keyPath), slog.String("error", err.Error()))
		} else if entry != nil {
			slog.Debug("cache hit", slog.String("path", keyPath))
			return &Result{
				Path:     keyPath,
				Output:   entry.Output,
				Changed:  entry.Changed,
				Cached:   true,
				Rewrites: entry.Rewrites,
				Preamble: entry.Preamble,
			}, nil
		}
	}

	if len(t.prefilter.Mentions(source)) == 0 {
		return &Result{Path: keyPath, Output: source, Skipped: true}, nil
	}

	prog, err := t.parser.ParseFile(ctx, filePath, source)
	if err != nil {
		return nil, err
	}
	report, err := rewrite.Apply(prog, keyPath, t.cfg, t.passes...)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", keyPath, err)
	}

	res := &Result{
		Path:     keyPath,
		Output:   source,
		Changed:  report.Changed(),
		Rewrites: report.Rewrites,
		Preamble: report.Preamble,
	}
	if res.Changed {
		res.Output = []byte(printer.Print(prog))
	}
	slog.Debug("transformed",
		slog.String("path", keyPath),
		slog.Int("rewrites", len(res.Rewrites)),
		slog.Bool("changed", res.Changed))

	if t.cache != nil {
		err := t.cache.Put(key, &ports.CacheEntry{
			Path:     keyPath,
			Output:   res.Output,
			Changed:  res.Changed,
			Rewrites: res.Rewrites,
			Preamble: res.Preamble,
			StoredAt: t.now().Unix(),
		})
		if err != nil {
			slog.Warn("cache store failed", slog.String("path", keyPath), slog.String("error", err.Error()))
		}
	}
	return res, nil
}

// TransformPaths reads and transforms files on a bounded worker pool.
// Outcomes are returned in the order of paths; a failing file does not stop
// the others.
func (t *Transformer) TransformPaths(ctx context.Context, paths []string) []FileOutcome {
	outcomes := make([]FileOutcome, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(t.jobs)
	for i, p := range paths {
		g.Go(func() error {
			outcomes[i] = FileOutcome{Path: p}
			source, err := os.ReadFile(p)
			if err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Result, outcomes[i].Err = t.TransformFile(ctx, p, source)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// cacheKey addresses an output by everything that determines it.
func (t *Transformer) cacheKey(keyPath string, source []byte) string {
	h := sha256.New()
	for _, part := range []string{Version, strings.Join(t.PassNames(), ","), t.cfg.String(), keyPath} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
