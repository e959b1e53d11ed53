// Package pool builds the collision pool a synthesized pattern must avoid.
//
// A Pool is an immutable, ordered, de-duplicated list of strings assembled from
// four sources: sibling labels of the same catalog domain, short adversarial
// fragments (tooltip phrasing, item-class lines, stat lines), descriptive text
// blocks, and base-type names. Construct one with a Builder and pass it to the
// pattern package; nothing here is cached globally.
package pool

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/corey/stashre/internal/ports"
)

// Category tags where a pool entry came from.
type Category uint8

const (
	CategoryLabel Category = iota
	CategoryFragment
	CategoryText
	CategoryBaseType
)

var categoryNames = [...]string{"label", "fragment", "text", "base_type"}

func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Pool is an immutable collision pool. The zero value is an empty pool.
type Pool struct {
	entries     []string
	lower       []string
	categories  []Category
	fingerprint string
}

// New builds a pool from plain strings, all tagged as labels.
func New(entries []string) *Pool {
	b := NewBuilder()
	b.Add(CategoryLabel, entries...)
	return b.Build()
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entry returns the i-th entry as supplied.
func (p *Pool) Entry(i int) string { return p.entries[i] }

// Lower returns the i-th entry lowercased.
func (p *Pool) Lower(i int) string { return p.lower[i] }

// Category returns the source category of the i-th entry.
func (p *Pool) Category(i int) Category { return p.categories[i] }

// Entries returns a copy of all entries in order.
func (p *Pool) Entries() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.entries))
	copy(out, p.entries)
	return out
}

// Fingerprint identifies the pool's content. Two pools with the same entries
// in the same order share a fingerprint.
func (p *Pool) Fingerprint() string {
	if p == nil {
		return emptyFingerprint
	}
	return p.fingerprint
}

// CountByCategory returns how many entries each category contributed.
func (p *Pool) CountByCategory() map[Category]int {
	counts := make(map[Category]int, len(categoryNames))
	if p == nil {
		return counts
	}
	for _, c := range p.categories {
		counts[c]++
	}
	return counts
}

// Excluding returns the indices of entries that remain in play for label:
// every entry whose lowercase form does not contain the lowercased label.
// Entries that contain the label are intentional variants, not collisions.
func (p *Pool) Excluding(label string) []int {
	if p == nil {
		return nil
	}
	needle := strings.ToLower(label)
	keep := make([]int, 0, len(p.entries))
	for i, l := range p.lower {
		if needle != "" && strings.Contains(l, needle) {
			continue
		}
		keep = append(keep, i)
	}
	return keep
}

// ExcludingAll computes Excluding for several labels at once. A non-nil
// scanner finds, in one pass per entry, every label the entry contains; a nil
// scanner falls back to Excluding per label. The result is keyed by the
// labels as given.
func (p *Pool) ExcludingAll(labels []string, scanner ports.LabelScanner) map[string][]int {
	out := make(map[string][]int, len(labels))
	if scanner == nil || p == nil {
		for _, l := range labels {
			out[l] = p.Excluding(l)
		}
		return out
	}

	needles := make([]string, len(labels))
	for i, l := range labels {
		needles[i] = strings.ToLower(l)
	}
	scanner.Build(needles)

	contains := make([]stringset.Set, len(p.entries))
	for i, l := range p.lower {
		hits := scanner.Scan(l)
		if len(hits) == 0 {
			continue
		}
		s := stringset.New()
		for _, h := range hits {
			s.Add(needles[h])
		}
		contains[i] = s
	}

	for li, l := range labels {
		keep := make([]int, 0, len(p.entries))
		for i := range p.entries {
			if needles[li] != "" && contains[i] != nil && contains[i].Contains(needles[li]) {
				continue
			}
			keep = append(keep, i)
		}
		out[l] = keep
	}
	return out
}

var emptyFingerprint = fingerprint(nil)

func fingerprint(entries []string) string {
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
