package pattern

import (
	"strings"
	"unicode"
)

// Separator joins alternatives in a combined search string.
const Separator = "|"

// Combine flattens several groups of patterns (e.g. one per category) into one
// list, preserving first-seen order. Exact duplicates are dropped, as is any
// pattern whose matches are already covered by another pattern in the list.
func Combine(groups ...[]string) []string {
	var all []string
	seen := make(map[string]struct{})
	for _, g := range groups {
		for _, p := range g {
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	toks := make([]tokens, len(all))
	for i, p := range all {
		toks[i] = tokenize(p)
	}

	out := make([]string, 0, len(all))
	for k, p := range all {
		redundant := false
		for m := range all {
			if m == k || !subsumes(toks[m], toks[k]) {
				continue
			}
			// Mutual cover (e.g. case variants): keep the earlier one.
			if !subsumes(toks[k], toks[m]) || m < k {
				redundant = true
				break
			}
		}
		if !redundant {
			out = append(out, p)
		}
	}
	return out
}

// Join renders patterns as one alternation.
func Join(patterns []string) string { return strings.Join(patterns, Separator) }

// Pack splits patterns into search strings of at most budget characters each,
// filling greedily in order. A single pattern longer than the budget gets a
// string of its own. A budget <= 0 packs everything into one string.
func Pack(patterns []string, budget int) []string {
	var (
		out []string
		cur strings.Builder
		n   int
	)
	for _, p := range patterns {
		pl := Len(p)
		need := pl
		if n > 0 {
			need += len(Separator)
		}
		if budget > 0 && n > 0 && n+need > budget {
			out = append(out, cur.String())
			cur.Reset()
			n, need = 0, pl
		}
		if n > 0 {
			cur.WriteString(Separator)
		}
		cur.WriteString(p)
		n += need
	}
	if n > 0 {
		out = append(out, cur.String())
	}
	return out
}

type tokenKind uint8

const (
	tokLit tokenKind = iota
	tokAny
	tokPlus
)

type token struct {
	kind tokenKind
	r    rune
}

type tokens struct {
	anchored bool
	toks     []token
}

func tokenize(p string) tokens {
	var t tokens
	if strings.HasPrefix(p, "^") {
		t.anchored = true
		p = p[1:]
	}
	rs := []rune(p)
	for i := 0; i < len(rs); i++ {
		switch {
		case rs[i] == '.' && i+1 < len(rs) && rs[i+1] == '+':
			t.toks = append(t.toks, token{kind: tokPlus})
			i++
		case rs[i] == '.':
			t.toks = append(t.toks, token{kind: tokAny})
		default:
			t.toks = append(t.toks, token{kind: tokLit, r: unicode.ToLower(rs[i])})
		}
	}
	return t
}

// subsumes reports whether every string matched by p is also matched by q.
// The check is conservative: false means "not proven", not "disjoint".
func subsumes(q, p tokens) bool {
	if len(q.toks) == 0 {
		return false
	}
	for _, t := range q.toks {
		if t.kind == tokPlus {
			return q.anchored == p.anchored && equalTokens(q.toks, p.toks)
		}
	}
	if q.anchored {
		return p.anchored && covers(q.toks, p.toks, 0)
	}
	for k := 0; k+len(q.toks) <= len(p.toks); k++ {
		if covers(q.toks, p.toks, k) {
			return true
		}
	}
	return false
}

// covers reports whether q, placed at offset k of p, accepts whatever p
// produces there.
func covers(q, p []token, k int) bool {
	if k+len(q) > len(p) {
		return false
	}
	for i, qt := range q {
		pt := p[k+i]
		if pt.kind == tokPlus {
			return false
		}
		switch qt.kind {
		case tokAny:
		case tokLit:
			if pt.kind != tokLit || pt.r != qt.r {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func equalTokens(a, b []token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
