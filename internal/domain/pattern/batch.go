package pattern

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/corey/stashre/internal/domain/pool"
	"github.com/corey/stashre/internal/ports"
)

// DefaultRounds caps the pairwise repair loop. The cap is heuristic: conflicts
// still present afterwards are reported, not forced apart.
const DefaultRounds = 20

// BatchOptions tunes ResolveBatch. The zero value is ready to use.
type BatchOptions struct {
	// Rounds caps the repair loop; 0 means DefaultRounds.
	Rounds int

	// Workers bounds pass-1 parallelism; 0 means GOMAXPROCS.
	// Results do not depend on it.
	Workers int

	// Seed optionally supplies a precomputed pass-1 result (e.g. from a
	// cache keyed by the pool fingerprint). Its pattern and shape are kept
	// as given; seeds that do not match their own label are ignored.
	Seed func(label string) (Result, bool)

	// Scanner, when set, computes every label's pool filter in one sweep.
	Scanner ports.LabelScanner
}

// Conflict records a pattern that still matches a sibling label.
type Conflict struct {
	Label   string `json:"label"`
	Pattern string `json:"pattern"`
	Sibling string `json:"sibling"`
}

// Assignment maps each distinct batch label to its pattern, in input order.
type Assignment struct {
	Results   []Result   `json:"results"`
	Rounds    int        `json:"rounds"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
	Seeded    int        `json:"seeded"`
}

// Pattern returns the pattern assigned to label.
func (a *Assignment) Pattern(label string) (string, bool) {
	for _, r := range a.Results {
		if r.Label == label {
			return r.Pattern, true
		}
	}
	return "", false
}

// Map returns the assignment as label -> pattern.
func (a *Assignment) Map() map[string]string {
	m := make(map[string]string, len(a.Results))
	for _, r := range a.Results {
		m[r.Label] = r.Pattern
	}
	return m
}

// Patterns returns the assigned patterns in label order.
func (a *Assignment) Patterns() []string {
	out := make([]string, len(a.Results))
	for i, r := range a.Results {
		out[i] = r.Pattern
	}
	return out
}

// Resolve is ResolveBatch over a plain entry list with default options,
// returning label -> pattern.
func Resolve(labels, entries []string) map[string]string {
	return ResolveBatch(labels, pool.New(entries), BatchOptions{}).Map()
}

// ResolveBatch abbreviates labels that will be searched for together.
//
// Pass 1 abbreviates every label against p independently. Pass 2 sweeps all
// label pairs; whenever one label's pattern also matches the other label, the
// offending pattern is lengthened until it no longer does (while staying
// unique against the pool). Sweeps repeat until one makes no change or the
// round cap is reached.
func ResolveBatch(labels []string, p *pool.Pool, opts BatchOptions) *Assignment {
	labels = distinct(labels)
	r := &resolver{
		pool:    p,
		labels:  make([]label, len(labels)),
		results: make([]Result, len(labels)),
	}
	for i, s := range labels {
		r.labels[i] = newLabel(s)
	}
	r.keep = p.ExcludingAll(labels, opts.Scanner)

	seeded := r.initial(opts)
	rounds := r.repair(opts.rounds())

	return &Assignment{
		Results:   r.results,
		Rounds:    rounds,
		Conflicts: r.conflicts(),
		Seeded:    seeded,
	}
}

func (o BatchOptions) rounds() int {
	if o.Rounds <= 0 {
		return DefaultRounds
	}
	return o.Rounds
}

func (o BatchOptions) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

type resolver struct {
	pool     *pool.Pool
	labels   []label
	keep     map[string][]int
	results  []Result
	matchers []Matcher
}

// initial runs pass 1. Each worker writes only its own slot, so the outcome
// is independent of scheduling. Returns how many labels were seeded.
func (r *resolver) initial(opts BatchOptions) int {
	seededFlags := make([]bool, len(r.labels))
	var g errgroup.Group
	g.SetLimit(opts.workers())
	for i := range r.labels {
		g.Go(func() error {
			l := r.labels[i]
			if opts.Seed != nil {
				if res, ok := opts.Seed(l.raw); ok && res.Pattern != "" && Match(res.Pattern, l.raw) {
					res.Label = l.raw
					r.results[i] = res
					seededFlags[i] = true
					return nil
				}
			}
			r.results[i] = synthesize(l, r.pool, r.keep[l.raw])
			return nil
		})
	}
	_ = g.Wait()

	r.matchers = make([]Matcher, len(r.results))
	seeded := 0
	for i, res := range r.results {
		r.matchers[i] = Compile(res.Pattern)
		if seededFlags[i] {
			seeded++
		}
	}
	return seeded
}

// repair runs pass 2 and returns the number of sweeps performed.
func (r *resolver) repair(maxRounds int) int {
	n := len(r.labels)
	if n < 2 {
		return 0
	}
	rounds := 0
	for rounds < maxRounds {
		rounds++
		changed := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if r.matchers[i].Match(r.labels[j].raw) && r.extend(i, j) {
					changed = true
				}
				if r.matchers[j].Match(r.labels[i].raw) && r.extend(j, i) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return rounds
}

// extend lengthens label i's pattern so it stops matching label j. Plain
// substrings longer than the current pattern are tried first, then anchored
// prefixes of at least the same total length, then the whole label. Reports
// whether the pattern changed.
func (r *resolver) extend(i, j int) bool {
	l, sibling := r.labels[i], r.labels[j].raw
	keep := r.keep[l.raw]
	cur := Len(r.results[i].Pattern)

	accept := func(p string) (Matcher, bool) {
		m := Compile(p)
		return m, m.Match(l.raw) && !m.Match(sibling) && unique(m, r.pool, keep)
	}

	next, shape := l.full(), ShapeFull
	var nm Matcher
	found := false
	for n := cur + 1; n <= len(l.text) && !found; n++ {
		for _, p := range l.substrings(n) {
			if m, ok := accept(p); ok {
				next, shape, nm, found = p, ShapeSubstring, m, true
				break
			}
		}
	}
	for n := cur + 1; n <= len(l.text)+1 && !found; n++ {
		if p := l.prefix(n); p != "" {
			if m, ok := accept(p); ok {
				next, shape, nm, found = p, ShapePrefix, m, true
			}
		}
	}
	if !found {
		nm = Compile(next)
	}

	if next == r.results[i].Pattern {
		return false
	}
	r.results[i].Pattern, r.results[i].Shape = next, shape
	r.matchers[i] = nm
	return true
}

// conflicts lists every ordered pair whose pattern still matches the sibling.
func (r *resolver) conflicts() []Conflict {
	var out []Conflict
	for i := range r.labels {
		for j := range r.labels {
			if i == j {
				continue
			}
			if r.matchers[i].Match(r.labels[j].raw) {
				out = append(out, Conflict{
					Label:   r.labels[i].raw,
					Pattern: r.results[i].Pattern,
					Sibling: r.labels[j].raw,
				})
			}
		}
	}
	return out
}

// ShapeOf classifies a pattern for label by its syntax, for patterns whose
// generator shape was not recorded. A window that crosses a word gap is
// indistinguishable from a bridge and is reported as one.
func ShapeOf(p, label string) Shape {
	switch {
	case p == newLabel(label).full():
		return ShapeFull
	case strings.HasPrefix(p, "^"):
		return ShapePrefix
	case strings.Contains(p, ".+"):
		return ShapeSpan
	case strings.Contains(p, "."):
		return ShapeBridge
	default:
		return ShapeSubstring
	}
}

// distinct drops repeated labels, keeping first occurrences in order.
func distinct(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
