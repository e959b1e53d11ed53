package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, "/project", p.ProjectRoot)
	assert.Equal(t, filepath.Join("/project", ".stashre"), p.Root)
	assert.Equal(t, filepath.Join("/project", ".stashre", "stashre.db"), p.DB)
	assert.Equal(t, filepath.Join("/project", ".stashre", "config.toml"), p.Config)
	assert.Equal(t, filepath.Join("/project", ".stashre", "catalog"), p.CatalogDir)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates the directory.
	require.NoError(t, p.EnsureDirs())
	info, err := os.Stat(p.Root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
}

func TestPaths_Resolve(t *testing.T) {
	p := NewPaths("/project")
	assert.Equal(t, "", p.Resolve(""))
	assert.Equal(t, "/abs/catalog", p.Resolve("/abs/catalog"))
	assert.Equal(t, filepath.Join("/project", "my", "catalog"), p.Resolve("my/catalog"))
}
