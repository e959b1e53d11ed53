package ports

// LabelScanner finds which of a set of needles occur in a text using
// multi-pattern matching (Aho-Corasick). A single pass over the text reports
// every needle it contains, overlapping matches included, which is what pool
// filtering needs: a label that is a substring of another label must still be
// found.
//
// Build is expected once per batch; Scan is called once per pool entry.
type LabelScanner interface {
	// Build replaces the needle set and reconstructs the automaton. Empty
	// needles are never reported.
	Build(needles []string)

	// Scan returns the indices (into the Build slice) of every needle found
	// in text. Results may contain duplicates. Text is matched as-is (caller
	// normalizes case).
	Scan(text string) []int
}
