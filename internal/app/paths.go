package app

import (
	"os"
	"path/filepath"

	"github.com/corey/atomtx/internal/domain/status"
)

// ProjectDir is the per-project state directory.
const ProjectDir = ".atomtx"

// Paths holds all resolved filesystem paths for the .atomtx/ project directory.
type Paths struct {
	Root        string // .atomtx/
	DB          string // .atomtx/cache.db
	Status      string // .atomtx/status.json
	GrammarsDir string // .atomtx/grammars/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ProjectDir)
	return &Paths{
		Root:        root,
		DB:          filepath.Join(root, "cache.db"),
		Status:      filepath.Join(root, status.StatusFile),
		GrammarsDir: filepath.Join(root, "grammars"),
	}
}

// EnsureDirs creates all subdirectories under .atomtx/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.GrammarsDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
