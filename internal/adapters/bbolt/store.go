// Package bbolt implements the ports.PatternStore interface using bbolt (embedded B+ tree).
// A single top-level "patterns" bucket holds one sub-bucket per pool fingerprint;
// within it, each key is a label and each value a JSON-encoded CachedPattern.
// Writes are transactional: a crash mid-write cannot corrupt previously
// committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/stashre/internal/ports"
)

var bucketPatterns = []byte("patterns")

// Store implements ports.PatternStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// poolBucket returns the sub-bucket for poolID, or nil.
func poolBucket(tx *bolt.Tx, poolID string) *bolt.Bucket {
	root := tx.Bucket(bucketPatterns)
	if root == nil {
		return nil
	}
	return root.Bucket([]byte(poolID))
}

// Get returns the cached pattern for label under poolID.
func (s *Store) Get(poolID, label string) (ports.CachedPattern, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := poolBucket(tx, poolID)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(label)); v != nil {
			// bbolt values are only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return ports.CachedPattern{}, false, err
	}

	var cp ports.CachedPattern
	if err := json.Unmarshal(data, &cp); err != nil {
		return ports.CachedPattern{}, false, fmt.Errorf("unmarshal pattern %q: %w", label, err)
	}
	return cp, true, nil
}

// PutAll stores every pattern for poolID in one transaction.
func (s *Store) PutAll(poolID string, patterns map[string]ports.CachedPattern) error {
	if poolID == "" {
		return errors.New("empty pool id")
	}
	if len(patterns) == 0 {
		return nil
	}

	encoded := make(map[string][]byte, len(patterns))
	for label, cp := range patterns {
		if label == "" {
			return errors.New("empty label")
		}
		data, err := json.Marshal(cp)
		if err != nil {
			return fmt.Errorf("marshal pattern %q: %w", label, err)
		}
		encoded[label] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(bucketPatterns)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(poolID))
		if err != nil {
			return err
		}
		for label, data := range encoded {
			if err := b.Put([]byte(label), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Pools lists the pool fingerprints with cached patterns, sorted.
func (s *Store) Pools() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketPatterns)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	sort.Strings(ids)
	return ids, err
}

// Count returns how many patterns are cached for poolID.
func (s *Store) Count(poolID string) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := poolBucket(tx, poolID); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// DeletePool removes every pattern cached for poolID.
// Idempotent: deleting a nonexistent pool is not an error.
func (s *Store) DeletePool(poolID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(bucketPatterns)
		if root == nil {
			return nil
		}
		if err := root.DeleteBucket([]byte(poolID)); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}
