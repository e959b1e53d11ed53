// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Scanner implements ports.LabelScanner. Build compiles an automaton over the
// batch labels; Scan reports which labels a pool entry contains.
type Scanner struct {
	automaton aho.AhoCorasick
	patterns  []string // distinct non-empty needles, automaton order
	owners    [][]int  // patterns[i] -> indices into the Build slice
	built     bool
}

// NewScanner returns an empty scanner; call Build before Scan.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Build compiles the automaton from needles. Empty needles are skipped and
// repeated needles share one automaton pattern.
func (s *Scanner) Build(needles []string) {
	s.patterns = s.patterns[:0]
	s.owners = s.owners[:0]
	at := make(map[string]int, len(needles))
	for i, n := range needles {
		if n == "" {
			continue
		}
		if j, ok := at[n]; ok {
			s.owners[j] = append(s.owners[j], i)
			continue
		}
		at[n] = len(s.patterns)
		s.patterns = append(s.patterns, n)
		s.owners = append(s.owners, []int{i})
	}

	s.built = len(s.patterns) > 0
	if !s.built {
		return
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	s.automaton = builder.Build(s.patterns)
}

// Scan returns the Build indices of every needle found in text, overlapping
// matches included.
func (s *Scanner) Scan(text string) []int {
	if !s.built || text == "" {
		return nil
	}
	iter := s.automaton.IterOverlappingByte([]byte(text))
	var hits []int
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		hits = append(hits, s.owners[m.Pattern()]...)
	}
	return hits
}

// PatternCount returns the number of distinct needles in the automaton.
func (s *Scanner) PatternCount() int {
	return len(s.patterns)
}
