package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// skipDirs lists directories to skip when collecting sources (matches fsnotify watcher).
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".atomtx":      true,
	".next":        true,
	".turbo":       true,
	".cache":       true,
}

// CollectSources expands paths into a sorted, de-duplicated list of absolute
// source files. Directories are walked and filtered by the parser's supported
// extensions; files named explicitly are kept as given so an unsupported file
// surfaces as an error instead of being dropped silently.
func (t *Transformer) CollectSources(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range paths {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		err = filepath.Walk(abs, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable
			}
			if info.IsDir() {
				if path != abs && skipDirs[info.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if t.parser.SupportsFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// OutputPath returns where the output for srcPath goes. With an empty outDir
// the source is rewritten in place; otherwise the project-relative path is
// mirrored below outDir.
func (t *Transformer) OutputPath(srcPath, outDir string) string {
	if outDir == "" {
		return srcPath
	}
	rel := t.KeyPath(srcPath)
	if filepath.IsAbs(rel) {
		rel = filepath.Base(rel)
	}
	return filepath.Join(outDir, rel)
}

// WriteResult stores res for srcPath. In-place mode only touches files that
// changed. Returns the written path, or "" when nothing was written.
func (t *Transformer) WriteResult(res *Result, srcPath, outDir string) (string, error) {
	if outDir == "" && !res.Changed {
		return "", nil
	}
	dest := t.OutputPath(srcPath, outDir)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	mode := fs.FileMode(0644)
	if info, err := os.Stat(srcPath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(dest, res.Output, mode); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

// RemoveOutput deletes the mirrored output of a removed source.
func (t *Transformer) RemoveOutput(srcPath, outDir string) (string, error) {
	if outDir == "" {
		return "", nil
	}
	dest := t.OutputPath(srcPath, outDir)
	if err := os.Remove(dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return dest, nil
}
