// atomtx rewrites Jotai atom declarations: it attaches debug labels and wraps
// atoms in a hot-reload cache so they keep their state across reloads.
package main

import (
	"os"

	"github.com/corey/atomtx/cmd/atomtx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
