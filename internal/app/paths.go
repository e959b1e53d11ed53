package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .stashre/ project directory.
// All fields are pre-computed strings.
type Paths struct {
	ProjectRoot string

	Root       string // .stashre/
	DB         string // .stashre/stashre.db
	Config     string // .stashre/config.toml
	CatalogDir string // .stashre/catalog/
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".stashre")
	return &Paths{
		ProjectRoot: projectRoot,

		Root:       root,
		DB:         filepath.Join(root, "stashre.db"),
		Config:     filepath.Join(root, "config.toml"),
		CatalogDir: filepath.Join(root, "catalog"),
	}
}

// EnsureDirs creates .stashre/. Idempotent. The catalog directory is only
// created when a catalog is exported into it.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}

// Resolve makes a configured path absolute against the project root.
// Empty stays empty.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ProjectRoot, path)
}
