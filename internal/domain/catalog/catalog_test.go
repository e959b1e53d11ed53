package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/stashre/defaults"
	"github.com/corey/stashre/internal/domain/pool"
)

// =============================================================================
// Catalog loading from the embedded default catalog
// =============================================================================

func TestLoad_EmbeddedDefaults(t *testing.T) {
	c, err := Load(defaults.FS, "v1", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"gems.yaml", "items.yaml"}, c.Files)
	assert.Equal(t, []string{"gems", "rings"}, c.Names())

	s := c.Stats()
	assert.Equal(t, 2, s.Domains)
	assert.Equal(t, 26, s.Entries)
	assert.Equal(t, 14, s.Fragments)
	assert.Equal(t, 10, s.BaseTypes)
}

func TestLoad_AllEntriesHaveNamesAndText(t *testing.T) {
	c, err := Load(defaults.FS, "v1", LoadOptions{})
	require.NoError(t, err)
	for _, d := range c.Domains {
		for _, e := range d.Entries {
			assert.NotEmpty(t, e.Name, d.Domain)
			assert.NotEmpty(t, e.Text, "%s/%s", d.Domain, e.Name)
			assert.NotContains(t, e.Text, "\n\n")
		}
	}
}

func fixture(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys["cat/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoad_IncludeGlob(t *testing.T) {
	fsys := fixture(map[string]string{
		"a.yaml":     "- domain: a\n  entries: [{name: Alpha}]\n",
		"b.yaml":     "- domain: b\n  entries: [{name: Beta}]\n",
		"notes.txt":  "not yaml",
		"b.yaml.bak": "- domain: stale\n",
	})

	c, err := Load(fsys, "cat", LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, c.Names())

	c, err = Load(fsys, "cat", LoadOptions{Include: "b*.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, c.Names())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"empty", map[string]string{"x.txt": ""}, "catalog is empty"},
		{"bad yaml", map[string]string{"a.yaml": "- domain: [\n"}, "parse cat/a.yaml"},
		{"no domain name", map[string]string{"a.yaml": "- entries: [{name: A}]\n"}, "domain with no name"},
		{"no entry name", map[string]string{"a.yaml": "- domain: a\n  entries: [{text: t}]\n"}, "entry 0 has no name"},
		{"duplicate entry", map[string]string{"a.yaml": "- domain: a\n  entries: [{name: Arc}, {name: ARC}]\n"}, "duplicate entry"},
		{"duplicate domain", map[string]string{
			"a.yaml": "- domain: a\n  entries: [{name: A}]\n",
			"b.yaml": "- domain: a\n  entries: [{name: B}]\n",
		}, `duplicate domain "a" (first in a.yaml, again in b.yaml)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fixture(tt.files), "cat", LoadOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(fstest.MapFS{}, "missing", LoadOptions{})
	assert.Error(t, err)
}

func TestLoad_RootDir(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": &fstest.MapFile{Data: []byte("- domain: a\n  entries: [{name: Alpha}]\n")}}
	c, err := Load(fsys, ".", LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, c.Names())
}

// =============================================================================
// Pool assembly
// =============================================================================

func TestPool_Composition(t *testing.T) {
	fsys := fixture(map[string]string{
		"a.yaml": `
- domain: gems
  entries:
    - {name: Fireball, text: "Unleashes a ball of fire"}
    - {name: Arc, text: "An arc of lightning"}
  fragments: ["Supported by"]
- domain: rings
  entries:
    - {name: Ruby Ring, text: "+25% to Fire Resistance"}
  fragments: ["Item Level"]
  base_types: ["Leather Belt"]
`,
	})
	c, err := Load(fsys, "cat", LoadOptions{})
	require.NoError(t, err)

	p, err := c.Pool("gems", PoolOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Fireball", "Arc",
		"Supported by", "Item Level",
		"Unleashes a ball of fire", "An arc of lightning", "+25% to Fire Resistance",
		"Leather Belt",
	}, p.Entries())
	assert.Equal(t, pool.CategoryFragment, p.Category(2))
	assert.Equal(t, pool.CategoryBaseType, p.Category(7))

	short, err := c.Pool("gems", PoolOptions{MaxTextLen: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fireball", "Arc", "Supported by", "Item Level", "An arc of lightning", "Leather Belt"}, short.Entries())

	labels, err := c.Labels("rings")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ruby Ring"}, labels)
}

func TestPool_UnknownDomain(t *testing.T) {
	c, err := Load(defaults.FS, "v1", LoadOptions{})
	require.NoError(t, err)

	_, err = c.Pool("flasks", PoolOptions{})
	assert.True(t, errors.Is(err, ErrUnknownDomain))
	_, err = c.Labels("flasks")
	assert.True(t, errors.Is(err, ErrUnknownDomain))
}
