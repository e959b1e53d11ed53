// Package app wires together all adapters and domain logic.
// It owns the loaded catalog, the optional pattern cache and the catalog
// watcher; the CLI talks to nothing else.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/corey/stashre/defaults"
	"github.com/corey/stashre/internal/adapters/ahocorasick"
	"github.com/corey/stashre/internal/adapters/bbolt"
	fsw "github.com/corey/stashre/internal/adapters/fsnotify"
	"github.com/corey/stashre/internal/domain/catalog"
	"github.com/corey/stashre/internal/domain/pattern"
	"github.com/corey/stashre/internal/domain/pool"
	"github.com/corey/stashre/internal/ports"
)

var (
	// ErrUnknownDomain is returned for a domain the catalog does not define.
	ErrUnknownDomain = catalog.ErrUnknownDomain
	// ErrNoLabels is returned when a batch has nothing to resolve.
	ErrNoLabels = errors.New("no labels given")
	// ErrNoCatalogDir is returned by Watch when the embedded catalog is in use.
	ErrNoCatalogDir = errors.New("no catalog_dir configured; nothing to watch")
	// ErrCacheDisabled is returned by cache operations when cache = false.
	ErrCacheDisabled = errors.New("pattern cache is disabled")
)

// defaultsDir is the embedded catalog version.
const defaultsDir = "v1"

// Options configures New.
type Options struct {
	Paths  *Paths
	Config Config
	Logger *zap.Logger // nil = no logging
}

// App is the top-level container wiring all components together.
type App struct {
	Paths  *Paths
	Config Config
	Logger *zap.Logger
	Store  ports.PatternStore // nil when the cache is disabled

	mu      sync.RWMutex // guards catalog and source across reloads
	catalog *catalog.Catalog
	source  string
}

// New loads the catalog and, when caching is enabled, opens the pattern store.
func New(opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		Paths:  opts.Paths,
		Config: opts.Config,
		Logger: log,
	}
	if err := a.Reload(); err != nil {
		return nil, err
	}

	if a.Config.Cache {
		if err := a.Paths.EnsureDirs(); err != nil {
			return nil, fmt.Errorf("create %s: %w", a.Paths.Root, err)
		}
		store, err := bbolt.NewStore(a.Paths.DB)
		if err != nil {
			return nil, err
		}
		a.Store = store
	}
	return a, nil
}

// Close releases the pattern store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// catalogSource returns where catalogs load from and a display name for it.
func (a *App) catalogSource() (fs.FS, string, string) {
	if dir := a.Paths.Resolve(a.Config.CatalogDir); dir != "" {
		return os.DirFS(dir), ".", dir
	}
	return defaults.FS, defaultsDir, "embedded"
}

// Reload re-reads the catalog. On error the previous catalog stays in place.
func (a *App) Reload() error {
	fsys, dir, source := a.catalogSource()
	c, err := catalog.Load(fsys, dir, catalog.LoadOptions{Include: a.Config.Include})
	if err != nil {
		return fmt.Errorf("load catalog (%s): %w", source, err)
	}

	a.mu.Lock()
	a.catalog, a.source = c, source
	a.mu.Unlock()

	s := c.Stats()
	a.Logger.Debug("catalog loaded",
		zap.String("source", source),
		zap.Int("domains", s.Domains),
		zap.Int("entries", s.Entries))
	return nil
}

// Catalog returns the current catalog and where it was loaded from.
func (a *App) Catalog() (*catalog.Catalog, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.catalog, a.source
}

// Pool assembles the collision pool for labels of domain.
func (a *App) Pool(domain string) (*pool.Pool, error) {
	c, _ := a.Catalog()
	return c.Pool(domain, catalog.PoolOptions{MaxTextLen: a.Config.MaxTextLen})
}

// Labels returns every label of domain.
func (a *App) Labels(domain string) ([]string, error) {
	c, _ := a.Catalog()
	return c.Labels(domain)
}

// Abbreviate synthesizes the pattern for one label against domain's pool,
// consulting and filling the cache.
func (a *App) Abbreviate(domain, label string) (pattern.Result, error) {
	if label == "" {
		return pattern.Result{}, ErrNoLabels
	}
	p, err := a.Pool(domain)
	if err != nil {
		return pattern.Result{}, err
	}

	id := p.Fingerprint()
	if r, ok := a.cached(id, label); ok {
		a.Logger.Debug("cache hit", zap.String("label", label), zap.String("pattern", r.Pattern))
		return r, nil
	}
	r := pattern.Synthesize(label, p)
	a.noteFallback(r)
	a.remember(id, []pattern.Result{r})
	return r, nil
}

// Batch resolves labels that will be searched for together. Cached
// single-label patterns seed pass 1.
func (a *App) Batch(domain string, labels []string) (*pattern.Assignment, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	p, err := a.Pool(domain)
	if err != nil {
		return nil, err
	}

	as := pattern.ResolveBatch(labels, p, pattern.BatchOptions{
		Rounds:  a.Config.Rounds,
		Workers: a.Config.Workers,
		Seed:    a.seed(p.Fingerprint()),
		Scanner: ahocorasick.NewScanner(),
	})
	for _, r := range as.Results {
		a.noteFallback(r)
	}
	for _, c := range as.Conflicts {
		a.Logger.Warn("residual batch conflict",
			zap.String("label", c.Label),
			zap.String("pattern", c.Pattern),
			zap.String("sibling", c.Sibling))
	}
	a.Logger.Debug("batch resolved",
		zap.String("domain", domain),
		zap.Int("labels", len(as.Results)),
		zap.Int("rounds", as.Rounds),
		zap.Int("seeded", as.Seeded))
	return as, nil
}

// Pack combines pattern groups and splits them into search strings of at
// most budget characters. A negative budget uses the configured one.
func (a *App) Pack(budget int, groups ...[]string) []string {
	if budget < 0 {
		budget = a.Config.Budget
	}
	return pattern.Pack(pattern.Combine(groups...), budget)
}

// BenchReport summarises how well a domain's labels compress.
type BenchReport struct {
	Domain   string `json:"domain"`
	PoolID   string `json:"pool_id"`
	PoolSize int    `json:"pool_size"`

	Results     []pattern.Result `json:"results"`
	Shapes      map[string]int   `json:"shapes"`
	Fallbacks   []string         `json:"fallbacks,omitempty"`
	Compression float64          `json:"compression"` // pattern runes / label runes
	CacheHits   int              `json:"cache_hits"`

	Batch  *pattern.Assignment `json:"batch"`
	Packed []string            `json:"packed"`
}

// Bench abbreviates every label of domain on its own, then resolves the
// whole domain as one batch and packs it into the configured budget.
func (a *App) Bench(domain string) (*BenchReport, error) {
	labels, err := a.Labels(domain)
	if err != nil {
		return nil, err
	}
	p, err := a.Pool(domain)
	if err != nil {
		return nil, err
	}

	rep := &BenchReport{
		Domain:   domain,
		PoolID:   p.Fingerprint(),
		PoolSize: p.Len(),
		Results:  make([]pattern.Result, 0, len(labels)),
		Shapes:   make(map[string]int),
	}
	var fresh []pattern.Result
	var patRunes, labelRunes int
	for _, l := range labels {
		r, hit := a.cached(rep.PoolID, l)
		if hit {
			rep.CacheHits++
		} else {
			r = pattern.Synthesize(l, p)
			fresh = append(fresh, r)
		}
		rep.Results = append(rep.Results, r)
		rep.Shapes[r.Shape.String()]++
		if r.Fallback() {
			rep.Fallbacks = append(rep.Fallbacks, l)
		}
		patRunes += pattern.Len(r.Pattern)
		labelRunes += utf8.RuneCountInString(l)
	}
	if labelRunes > 0 {
		rep.Compression = float64(patRunes) / float64(labelRunes)
	}
	a.remember(rep.PoolID, fresh)

	rep.Batch, err = a.Batch(domain, labels)
	if err != nil {
		return nil, err
	}
	rep.Packed = a.Pack(-1, rep.Batch.Patterns())
	return rep, nil
}

// CacheStats describes the pattern cache.
type CacheStats struct {
	Pools    int `json:"pools"`
	Patterns int `json:"patterns"`
}

// CacheStats counts cached pools and patterns.
func (a *App) CacheStats() (CacheStats, error) {
	if a.Store == nil {
		return CacheStats{}, ErrCacheDisabled
	}
	ids, err := a.Store.Pools()
	if err != nil {
		return CacheStats{}, err
	}
	s := CacheStats{Pools: len(ids)}
	for _, id := range ids {
		n, err := a.Store.Count(id)
		if err != nil {
			return s, err
		}
		s.Patterns += n
	}
	return s, nil
}

// WipeCache removes every cached pool and returns how many there were.
func (a *App) WipeCache() (int, error) {
	if a.Store == nil {
		return 0, ErrCacheDisabled
	}
	ids, err := a.Store.Pools()
	if err != nil {
		return 0, err
	}
	for i, id := range ids {
		if err := a.Store.DeletePool(id); err != nil {
			return i, fmt.Errorf("delete pool %s: %w", id, err)
		}
	}
	a.Logger.Info("pattern cache wiped", zap.Int("pools", len(ids)))
	return len(ids), nil
}

// ReloadEvent reports one catalog reload triggered by Watch.
type ReloadEvent struct {
	Path  string
	Stats catalog.Stats
	Err   error
}

// Watch reloads the catalog whenever a file in the configured catalog
// directory changes, until ctx is done. Bursts of changes coalesce into one
// reload. A failed reload keeps the previous catalog.
func (a *App) Watch(ctx context.Context, onReload func(ReloadEvent)) error {
	dir := a.Paths.Resolve(a.Config.CatalogDir)
	if dir == "" {
		return ErrNoCatalogDir
	}

	fw, err := fsw.NewWatcher(a.Config.Include)
	if err != nil {
		return err
	}
	var w ports.Watcher = fw
	defer w.Stop()

	changed := make(chan string, 1)
	err = w.Watch(dir, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	a.Logger.Info("watching catalog", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			ev := ReloadEvent{Path: path}
			if err := a.Reload(); err != nil {
				ev.Err = err
				a.Logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
			} else {
				c, _ := a.Catalog()
				ev.Stats = c.Stats()
				a.Logger.Info("catalog reloaded", zap.String("path", path), zap.Int("domains", ev.Stats.Domains))
			}
			if onReload != nil {
				onReload(ev)
			}
		}
	}
}

// ExportCatalog copies the embedded catalog into dir so it can be edited.
// Existing files are left alone. Returns the names written.
func ExportCatalog(dir string) ([]string, error) {
	entries, err := fs.ReadDir(defaults.FS, defaultsDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, e := range entries {
		dst := filepath.Join(dir, e.Name())
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		data, err := fs.ReadFile(defaults.FS, defaultsDir+"/"+e.Name())
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return written, err
		}
		written = append(written, e.Name())
	}
	return written, nil
}

// cached returns a cached result for label if one exists and still matches
// the label. Read errors count as misses.
func (a *App) cached(poolID, label string) (pattern.Result, bool) {
	if a.Store == nil {
		return pattern.Result{}, false
	}
	cp, ok, err := a.Store.Get(poolID, label)
	if err != nil {
		a.Logger.Warn("cache read failed", zap.String("label", label), zap.Error(err))
		return pattern.Result{}, false
	}
	if !ok || !pattern.Match(cp.Pattern, label) {
		return pattern.Result{}, false
	}
	shape, known := pattern.ParseShape(cp.Shape)
	if !known {
		shape = pattern.ShapeOf(cp.Pattern, label)
	}
	return pattern.Result{Label: label, Pattern: cp.Pattern, Shape: shape}, true
}

// seed adapts the cache to pattern.BatchOptions.Seed.
func (a *App) seed(poolID string) func(string) (pattern.Result, bool) {
	if a.Store == nil {
		return nil
	}
	return func(label string) (pattern.Result, bool) {
		return a.cached(poolID, label)
	}
}

// remember stores single-label results. Write errors are logged, not returned.
func (a *App) remember(poolID string, results []pattern.Result) {
	if a.Store == nil || len(results) == 0 {
		return
	}
	m := make(map[string]ports.CachedPattern, len(results))
	for _, r := range results {
		m[r.Label] = ports.CachedPattern{Pattern: r.Pattern, Shape: r.Shape.String()}
	}
	if err := a.Store.PutAll(poolID, m); err != nil {
		a.Logger.Warn("cache write failed", zap.Error(err))
	}
}

func (a *App) noteFallback(r pattern.Result) {
	if r.Fallback() {
		a.Logger.Warn("no shorter unique pattern; using full label",
			zap.String("label", r.Label),
			zap.String("pattern", r.Pattern))
	}
}
