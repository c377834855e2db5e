// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It recursively watches a source directory, filters out dependency, build and
// editor files, and debounces rapid events (editors often trigger multiple
// writes per save).
package fsnotify

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corey/atomtx/internal/ports"
)

// Directories to ignore when watching.
var ignoreDirs = map[string]bool{
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

// File extensions/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".swx":      true,
	"~":         true,
	".map":      true,
}

// debounceInterval drops repeated events for the same path.
const debounceInterval = 50 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	skip    []string // absolute directories to ignore, e.g. the output directory
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a new file system watcher. Paths below any of skipDirs
// never trigger onChange.
func NewWatcher(skipDirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}
	for _, dir := range skipDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			w.skip = append(w.skip, abs)
		}
	}
	return w, nil
}

// Watch starts monitoring root recursively.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(root string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	// Walk and add all directories
	err = filepath.Walk(absPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == absPath {
				return err
			}
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if path != absPath && (shouldIgnoreDir(info.Name()) || w.skipped(path)) {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: track last event time per file
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// For Create events, add new directories to the watch list
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !shouldIgnoreDir(info.Name()) && !w.skipped(path) {
							if err := w.fw.Add(path); err != nil {
								slog.Debug("watch new directory", slog.String("path", path), slog.String("error", err.Error()))
							}
						}
						continue
					}
				}

				if shouldIgnorePath(path) || w.skipped(path) {
					continue
				}

				// Debounce: skip if we've seen this file recently
				now := time.Now()
				if last, exists := debounce[path]; exists && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now

				// Fire callback for relevant operations
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers automatically
				slog.Debug("watcher error", slog.String("error", err.Error()))

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// skipped reports whether path is at or below one of the skip directories.
func (w *Watcher) skipped(path string) bool {
	for _, dir := range w.skip {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if the file path should not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	// Check ignored file names/extensions
	if ignoreFiles[base] {
		return true
	}
	for ext := range ignoreFiles {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	// Check if any path component is an ignored directory
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}

	return false
}
