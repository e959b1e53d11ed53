// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// PatternStore persists resolved patterns so repeated runs against the same
// pool start from known-good answers. The backing store (bbolt) namespaces
// results by pool fingerprint: any change to the pool lands in a fresh
// namespace and stale patterns are never consulted.
//
// Cached patterns are seeds, not answers. The resolver re-checks each one
// against the current pool and batch before using it.
type PatternStore interface {
	// Get returns the cached pattern for label under poolID.
	// Returns "", false, nil when nothing is cached.
	Get(poolID, label string) (CachedPattern, bool, error)

	// PutAll stores every pattern for poolID in one transaction,
	// overwriting earlier entries for the same labels.
	PutAll(poolID string, patterns map[string]CachedPattern) error

	// Pools lists the pool fingerprints that hold cached patterns, sorted.
	Pools() ([]string, error)

	// Count returns how many patterns are cached for poolID.
	Count(poolID string) (int, error)

	// DeletePool removes every pattern cached for poolID.
	// Idempotent: deleting a nonexistent pool is not an error.
	DeletePool(poolID string) error

	// Close releases the underlying database.
	Close() error
}

// CachedPattern is one stored resolution.
type CachedPattern struct {
	Pattern string `json:"p"`
	Shape   string `json:"s"`
}
