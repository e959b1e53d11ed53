package pattern

import (
	"github.com/corey/stashre/internal/domain/pool"
)

// Result is the outcome of abbreviating one label.
type Result struct {
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
	Shape   Shape  `json:"shape"`
}

// Fallback reports whether no shorter unique pattern was found and the whole
// label was returned instead. It is a soft warning, not an error.
func (r Result) Fallback() bool { return r.Shape == ShapeFull }

// Abbreviate returns the shortest pattern, in generator order, that matches
// label and none of the entries of entries that do not themselves contain the
// label (case-insensitively).
func Abbreviate(label string, entries []string) string {
	return Synthesize(label, pool.New(entries)).Pattern
}

// Synthesize is Abbreviate over a prebuilt pool, reporting the pattern shape.
func Synthesize(label string, p *pool.Pool) Result {
	return synthesize(newLabel(label), p, p.Excluding(label))
}

// synthesize runs the candidate search for l against the pool entries in keep.
func synthesize(l label, p *pool.Pool, keep []int) Result {
	res := Result{Label: l.raw, Pattern: l.full(), Shape: ShapeFull}
	l.each(func(c Candidate) bool {
		m := Compile(c.Pattern)
		if !m.Match(l.raw) || !unique(m, p, keep) {
			return true
		}
		res.Pattern, res.Shape = c.Pattern, c.Shape
		return false
	})
	return res
}

// unique reports whether m matches none of the pool entries in keep.
func unique(m Matcher, p *pool.Pool, keep []int) bool {
	for _, i := range keep {
		if m.Match(p.Entry(i)) {
			return false
		}
	}
	return true
}
