package pattern

import (
	"strings"
	"unicode"
)

// Shape identifies which generator family produced a pattern.
type Shape int

const (
	ShapeSubstring Shape = iota // contiguous window of the label
	ShapeBridge                 // end of one word + "." + start of the next
	ShapePrefix                 // "^" + leading characters
	ShapeSpan                   // end of the first word + ".+" + start of a later word
	ShapeFull                   // whole label; no shorter unique pattern exists
)

var shapeNames = [...]string{"substring", "bridge", "prefix", "span", "full"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// MarshalText renders the shape by name.
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ParseShape is the inverse of Shape.String.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return 0, false
}

// Generator limits.
const (
	// BridgeMaxLen is the longest total length at which cross-word bridges are tried.
	BridgeMaxLen = 8
	// SpanMinLen and SpanMaxLen bound the total length of long-range spans.
	SpanMinLen = 6
	SpanMaxLen = 14
)

// Candidate is one generated pattern.
type Candidate struct {
	Pattern string
	Shape   Shape
}

// label is a lowered, pre-split label ready for candidate generation.
type label struct {
	raw   string   // original input
	text  []rune   // lowered label
	words [][]rune // lowered words, split on whitespace
}

func newLabel(s string) label {
	lower := strings.ToLower(s)
	fields := strings.Fields(lower)
	words := make([][]rune, len(fields))
	for i, f := range fields {
		words[i] = []rune(f)
	}
	return label{raw: s, text: []rune(lower), words: words}
}

// full returns the whole lowered label with spaces rewritten to ".".
func (l label) full() string { return dotted(l.text) }

// dotted renders runes as pattern text, rewriting whitespace to ".".
func dotted(rs []rune) string {
	var b strings.Builder
	b.Grow(len(rs))
	for _, r := range rs {
		if unicode.IsSpace(r) {
			b.WriteByte('.')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// substrings returns every window of n runes, left to right.
func (l label) substrings(n int) []string {
	if n <= 0 || n > len(l.text) {
		return nil
	}
	out := make([]string, 0, len(l.text)-n+1)
	for i := 0; i+n <= len(l.text); i++ {
		out = append(out, dotted(l.text[i:i+n]))
	}
	return out
}

// bridges returns the cross-word candidates of total length n for every
// adjacent word pair, shortest left part first.
func (l label) bridges(n int) []string {
	if len(l.words) < 2 || n > BridgeMaxLen || n < 3 {
		return nil
	}
	var out []string
	for i := 0; i+1 < len(l.words); i++ {
		left, right := l.words[i], l.words[i+1]
		for ll := 1; ll <= n-2; ll++ {
			rl := n - 1 - ll
			if ll > len(left) || rl > len(right) {
				continue
			}
			out = append(out, string(left[len(left)-ll:])+"."+string(right[:rl]))
		}
	}
	return out
}

// prefix returns "^" plus the first n-1 runes, or "" when that is impossible.
func (l label) prefix(n int) string {
	p := n - 1
	if p < 1 || p > len(l.text) {
		return ""
	}
	return "^" + dotted(l.text[:p])
}

// spans returns the long-range candidates of total length n.
func (l label) spans(n int) []string {
	if len(l.words) < 2 || n < 4 {
		return nil
	}
	first := l.words[0]
	var out []string
	for j := 1; j < len(l.words); j++ {
		later := l.words[j]
		for ll := 1; ll <= n-3; ll++ {
			rl := n - 2 - ll
			if ll > len(first) || rl > len(later) {
				continue
			}
			out = append(out, string(first[len(first)-ll:])+".+"+string(later[:rl]))
		}
	}
	return out
}

// Candidates enumerates patterns for s in search order: for each total length
// from 1 to the label length, bridges (up to BridgeMaxLen), then plain
// substrings, then the anchored prefix; afterwards long-range spans from
// SpanMinLen to SpanMaxLen. Each distinct pattern is yielded once. Returning
// false from yield stops the enumeration.
func Candidates(s string, yield func(Candidate) bool) {
	newLabel(s).each(yield)
}

func (l label) each(yield func(Candidate) bool) {
	seen := make(map[string]struct{})
	emit := func(p string, shape Shape) bool {
		if p == "" {
			return true
		}
		if _, dup := seen[p]; dup {
			return true
		}
		seen[p] = struct{}{}
		return yield(Candidate{Pattern: p, Shape: shape})
	}

	for n := 1; n <= len(l.text); n++ {
		for _, p := range l.bridges(n) {
			if !emit(p, ShapeBridge) {
				return
			}
		}
		for _, p := range l.substrings(n) {
			if !emit(p, ShapeSubstring) {
				return
			}
		}
		if !emit(l.prefix(n), ShapePrefix) {
			return
		}
	}

	for n := SpanMinLen; n <= SpanMaxLen; n++ {
		for _, p := range l.spans(n) {
			if !emit(p, ShapeSpan) {
				return
			}
		}
	}
}

// Len returns the length a pattern occupies in the search string.
func Len(p string) int { return len([]rune(p)) }
