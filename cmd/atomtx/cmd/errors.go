package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/atomtx/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the cache database is held
// by another process, usually a running `atomtx watch`.
func diagnoseDBLock(root string) string {
	return fmt.Sprintf("cache database is locked by another process\n"+
		"  → a running `atomtx watch` holds %s\n"+
		"  → stop it, or retry with --no-cache\n"+
		"  → find the process:  ps aux | grep 'atomtx'", app.NewPaths(root).DB)
}
