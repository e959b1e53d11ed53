package pool

import (
	"strings"

	"bitbucket.org/creachadair/stringset"
)

// Builder accumulates pool entries. Empty entries and exact repeats are
// dropped, first occurrence wins. Entries are otherwise kept verbatim.
type Builder struct {
	seen       stringset.Set
	entries    []string
	categories []Category
	maxLen     int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: stringset.New()}
}

// MaxEntryLen drops entries longer than n runes (0 disables the limit).
// Long text blocks dominate matching cost; callers curate the pool with this.
func (b *Builder) MaxEntryLen(n int) *Builder {
	b.maxLen = n
	return b
}

// Add appends entries under category c.
func (b *Builder) Add(c Category, entries ...string) *Builder {
	for _, e := range entries {
		if e == "" || b.seen.Contains(e) {
			continue
		}
		if b.maxLen > 0 && len([]rune(e)) > b.maxLen {
			continue
		}
		b.seen.Add(e)
		b.entries = append(b.entries, e)
		b.categories = append(b.categories, c)
	}
	return b
}

// Labels adds sibling labels.
func (b *Builder) Labels(entries ...string) *Builder { return b.Add(CategoryLabel, entries...) }

// Fragments adds adversarial text fragments.
func (b *Builder) Fragments(entries ...string) *Builder { return b.Add(CategoryFragment, entries...) }

// Texts adds descriptive text blocks.
func (b *Builder) Texts(entries ...string) *Builder { return b.Add(CategoryText, entries...) }

// BaseTypes adds base-type names.
func (b *Builder) BaseTypes(entries ...string) *Builder { return b.Add(CategoryBaseType, entries...) }

// Len returns the number of entries added so far.
func (b *Builder) Len() int { return len(b.entries) }

// Build freezes the accumulated entries into a Pool. The Builder may keep
// being used; later additions do not affect pools already built.
func (b *Builder) Build() *Pool {
	entries := make([]string, len(b.entries))
	copy(entries, b.entries)
	cats := make([]Category, len(b.categories))
	copy(cats, b.categories)

	lower := make([]string, len(entries))
	for i, e := range entries {
		lower[i] = strings.ToLower(e)
	}
	return &Pool{
		entries:     entries,
		lower:       lower,
		categories:  cats,
		fingerprint: fingerprint(entries),
	}
}
