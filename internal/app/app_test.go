package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/corey/stashre/internal/domain/pattern"
	"github.com/corey/stashre/internal/ports"
)

// newTestApp builds an App over the embedded catalog in a temp project.
func newTestApp(t *testing.T, mutate func(*Config)) *App {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	a, err := New(Options{
		Paths:  NewPaths(t.TempDir()),
		Config: cfg,
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

// assertUnique checks self-match and uniqueness of r against domain's pool.
func assertUnique(t *testing.T, a *App, domain string, r pattern.Result) {
	t.Helper()
	p, err := a.Pool(domain)
	require.NoError(t, err)
	assert.True(t, pattern.Match(r.Pattern, r.Label), "%q must match %q", r.Pattern, r.Label)
	for _, i := range p.Excluding(r.Label) {
		assert.False(t, pattern.Match(r.Pattern, p.Entry(i)), "%q (%s) matches pool entry %q", r.Pattern, r.Label, p.Entry(i))
	}
}

// =============================================================================
// Single label
// =============================================================================

func TestApp_Abbreviate_CachesResult(t *testing.T) {
	a := newTestApp(t, nil)

	r1, err := a.Abbreviate("gems", "Fireball")
	require.NoError(t, err)
	assertUnique(t, a, "gems", r1)

	p, err := a.Pool("gems")
	require.NoError(t, err)
	n, err := a.Store.Count(p.Fingerprint())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r2, err := a.Abbreviate("gems", "Fireball")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestApp_Abbreviate_Errors(t *testing.T) {
	a := newTestApp(t, nil)

	_, err := a.Abbreviate("flasks", "Quicksilver Flask")
	assert.True(t, errors.Is(err, ErrUnknownDomain))

	_, err = a.Abbreviate("gems", "")
	assert.True(t, errors.Is(err, ErrNoLabels))
}

func TestApp_CacheDisabled(t *testing.T) {
	a := newTestApp(t, func(c *Config) { c.Cache = false })
	assert.Nil(t, a.Store)

	r, err := a.Abbreviate("rings", "Ruby Ring")
	require.NoError(t, err)
	assertUnique(t, a, "rings", r)

	_, err = a.CacheStats()
	assert.True(t, errors.Is(err, ErrCacheDisabled))
	_, err = a.WipeCache()
	assert.True(t, errors.Is(err, ErrCacheDisabled))
	_, err = os.Stat(a.Paths.DB)
	assert.True(t, os.IsNotExist(err), "no database when the cache is off")
}

// =============================================================================
// Batches
// =============================================================================

func TestApp_Batch_WholeDomain(t *testing.T) {
	a := newTestApp(t, nil)
	labels, err := a.Labels("gems")
	require.NoError(t, err)

	as, err := a.Batch("gems", labels)
	require.NoError(t, err)
	require.Len(t, as.Results, len(labels))

	// "Arc" is contained in "Arctic Armour": that pair cannot be separated.
	for _, c := range as.Conflicts {
		assert.Equal(t, "Arc", c.Label)
		assert.Equal(t, "Arctic Armour", c.Sibling)
	}
	for _, x := range as.Results {
		assertUnique(t, a, "gems", x)
		for _, y := range as.Results {
			if x.Label == y.Label || strings.Contains(strings.ToLower(y.Label), strings.ToLower(x.Label)) {
				continue
			}
			assert.False(t, pattern.Match(x.Pattern, y.Label), "%q (%s) matches sibling %q", x.Pattern, x.Label, y.Label)
		}
	}
}

func TestApp_Batch_SeedsFromCache(t *testing.T) {
	a := newTestApp(t, nil)
	r, err := a.Abbreviate("gems", "Fireball")
	require.NoError(t, err)

	as, err := a.Batch("gems", []string{"Fireball", "Spark"})
	require.NoError(t, err)
	assert.Equal(t, 1, as.Seeded)
	assert.Equal(t, r, as.Results[0])
}

func TestApp_Batch_SeedKeepsCachedShape(t *testing.T) {
	a := newTestApp(t, nil)
	p, err := a.Pool("gems")
	require.NoError(t, err)
	require.NoError(t, a.Store.PutAll(p.Fingerprint(), map[string]ports.CachedPattern{
		"Arctic Armour": {Pattern: "c.ar", Shape: "bridge"},
		"Fireball":      {Pattern: "fi.+ba"}, // no recorded shape
	}))

	as, err := a.Batch("gems", []string{"Arctic Armour", "Fireball"})
	require.NoError(t, err)
	assert.Equal(t, 2, as.Seeded)
	assert.Equal(t, pattern.Result{Label: "Arctic Armour", Pattern: "c.ar", Shape: pattern.ShapeBridge}, as.Results[0])
	assert.Equal(t, pattern.ShapeSpan, as.Results[1].Shape)
}

func TestApp_Batch_NoLabels(t *testing.T) {
	a := newTestApp(t, nil)
	_, err := a.Batch("gems", nil)
	assert.True(t, errors.Is(err, ErrNoLabels))
}

func TestApp_Pack_UsesConfiguredBudget(t *testing.T) {
	a := newTestApp(t, func(c *Config) { c.Budget = 6 })
	assert.Equal(t, []string{"abc|de", "fgh"}, a.Pack(-1, []string{"abc", "de"}, []string{"fgh", "abc"}))
	assert.Equal(t, []string{"abc|de|fgh"}, a.Pack(0, []string{"abc", "de", "fgh"}))
}

// =============================================================================
// Bench
// =============================================================================

func TestApp_Bench(t *testing.T) {
	a := newTestApp(t, nil)

	rep, err := a.Bench("gems")
	require.NoError(t, err)
	require.Len(t, rep.Results, 20)
	assert.Zero(t, rep.CacheHits)
	assert.Greater(t, rep.PoolSize, 20)

	total := 0
	for _, n := range rep.Shapes {
		total += n
	}
	assert.Equal(t, 20, total)
	assert.Greater(t, rep.Compression, 0.0)
	assert.Less(t, rep.Compression, 1.0)
	for _, s := range rep.Packed {
		assert.LessOrEqual(t, len(s), DefaultBudget, s)
	}

	again, err := a.Bench("gems")
	require.NoError(t, err)
	assert.Equal(t, 20, again.CacheHits)
	assert.Equal(t, rep.Results, again.Results)

	stats, err := a.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, CacheStats{Pools: 1, Patterns: 20}, stats)

	n, err := a.WipeCache()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	stats, err = a.CacheStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Patterns)
}

// =============================================================================
// User catalogs and watching
// =============================================================================

func exportedApp(t *testing.T) *App {
	t.Helper()
	paths := NewPaths(t.TempDir())
	written, err := ExportCatalog(paths.CatalogDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"gems.yaml", "items.yaml"}, written)

	cfg := DefaultConfig()
	cfg.Cache = false
	cfg.CatalogDir = filepath.Join(".stashre", "catalog")
	a, err := New(Options{Paths: paths, Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_UserCatalog(t *testing.T) {
	a := exportedApp(t)
	c, source := a.Catalog()
	assert.Equal(t, a.Paths.CatalogDir, source)
	assert.Equal(t, []string{"gems", "rings"}, c.Names())

	again, err := ExportCatalog(a.Paths.CatalogDir)
	require.NoError(t, err)
	assert.Empty(t, again, "existing files are not overwritten")
}

func TestApp_Reload_FailureKeepsCatalog(t *testing.T) {
	a := exportedApp(t)
	bad := filepath.Join(a.Paths.CatalogDir, "broken.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- domain: [\n"), 0644))

	assert.Error(t, a.Reload())
	c, _ := a.Catalog()
	assert.Equal(t, []string{"gems", "rings"}, c.Names())
}

func TestApp_Watch_ReloadsOnChange(t *testing.T) {
	a := exportedApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan ReloadEvent, 10)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, func(ev ReloadEvent) { events <- ev })
	}()
	time.Sleep(100 * time.Millisecond)

	// Write under an ignored name, then rename, so the watcher never sees a
	// half-written catalog file.
	extra := "- domain: flasks\n  entries: [{name: Quicksilver Flask}, {name: Granite Flask}]\n"
	tmp := filepath.Join(a.Paths.CatalogDir, "flasks.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(extra), 0644))
	require.NoError(t, os.Rename(tmp, filepath.Join(a.Paths.CatalogDir, "flasks.yaml")))

	deadline := time.After(3 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case ev := <-events:
			require.NoError(t, ev.Err)
			reloaded = ev.Stats.Domains == 3
		case <-deadline:
			t.Fatal("expected a reload with the new domain")
		}
	}

	r, err := a.Abbreviate("flasks", "Granite Flask")
	require.NoError(t, err)
	assertUnique(t, a, "flasks", r)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestApp_Watch_EmbeddedCatalog(t *testing.T) {
	a := newTestApp(t, nil)
	err := a.Watch(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNoCatalogDir))
}
