package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	fsw "github.com/corey/atomtx/internal/adapters/fsnotify"
	"github.com/corey/atomtx/internal/ports"
)

// WatchEvent reports what watch mode did with one changed path.
type WatchEvent struct {
	Path    string // absolute source path
	Dest    string // written or removed output, "" if none
	Removed bool
	Result  *Result
	Err     error
}

// Watch re-transforms sources below srcRoot into outDir until ctx is done.
// Events are handled one at a time; emit is called for each.
func (a *App) Watch(ctx context.Context, srcRoot, outDir string, emit func(WatchEvent)) error {
	if outDir == "" {
		return errors.New("watch needs an output directory")
	}
	w, err := fsw.NewWatcher(outDir, a.Paths.Root)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	return a.watch(ctx, w, srcRoot, outDir, emit)
}

func (a *App) watch(ctx context.Context, w ports.Watcher, srcRoot, outDir string, emit func(WatchEvent)) error {
	defer w.Stop()

	changes := make(chan string, 64)
	err := w.Watch(srcRoot, func(p string) {
		select {
		case changes <- p:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", srcRoot, err)
	}
	slog.Debug("watching", slog.String("root", srcRoot), slog.String("out", outDir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-changes:
			if ev, ok := a.onSourceChanged(ctx, p, outDir); ok {
				emit(ev)
			}
		}
	}
}

// onSourceChanged transforms or removes the output for one path. Returns
// false for paths the parser does not handle.
func (a *App) onSourceChanged(ctx context.Context, absPath, outDir string) (WatchEvent, bool) {
	if !a.Parser.SupportsFile(absPath) {
		return WatchEvent{}, false
	}
	ev := WatchEvent{Path: absPath}

	info, err := os.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) {
		ev.Removed = true
		ev.Dest, ev.Err = a.Transformer.RemoveOutput(absPath, outDir)
		return ev, true
	}
	if err == nil && info.IsDir() {
		return WatchEvent{}, false
	}
	source, err := os.ReadFile(absPath)
	if err != nil {
		ev.Err = err
		return ev, true
	}

	ev.Result, ev.Err = a.Transformer.TransformFile(ctx, absPath, source)
	if ev.Err != nil {
		return ev, true
	}
	ev.Dest, ev.Err = a.Transformer.WriteResult(ev.Result, absPath, filepath.Clean(outDir))
	return ev, true
}
