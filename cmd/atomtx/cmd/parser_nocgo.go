//go:build !cgo

package cmd

import "github.com/corey/atomtx/internal/ports"

// newParser returns nil when CGo is unavailable (pure Go build).
// Every command that parses sources refuses to run.
func newParser(_ string) ports.Parser {
	return nil
}
