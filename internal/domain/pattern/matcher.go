// Package pattern synthesizes short search patterns that single out one label
// from a collision pool. Patterns use a small wildcard dialect understood by the
// in-game search box:
//
//	^    anchors the rest of the pattern to the start of the text (leading only)
//	.    any single character
//	.+   one or more characters
//
// Everything else is a literal, compared case-insensitively. Patterns never
// contain a space; the generator rewrites spaces as ".".
//
// The package is pure: no I/O, no shared state. All functions are safe for
// concurrent use.
package pattern

import (
	"regexp"
	"strings"
)

// Matcher tests candidate strings against one compiled pattern.
// Exactly one of re or literal is used, decided at compile time.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
	literal string // lowercased raw pattern, used when re is nil
}

// Compile translates a pattern into a Matcher. A pattern that does not yield a
// valid regular expression falls back to plain case-insensitive containment of
// the raw pattern text.
func Compile(pattern string) Matcher {
	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		return Matcher{pattern: pattern, literal: strings.ToLower(pattern)}
	}
	return Matcher{pattern: pattern, re: re}
}

// Match reports whether pattern matches candidate.
func Match(pattern, candidate string) bool {
	return Compile(pattern).Match(candidate)
}

// Match reports whether the compiled pattern matches candidate.
func (m Matcher) Match(candidate string) bool {
	if m.re == nil {
		return strings.Contains(strings.ToLower(candidate), m.literal)
	}
	return m.re.MatchString(candidate)
}

// Pattern returns the source pattern.
func (m Matcher) Pattern() string { return m.pattern }

// Literal reports whether the matcher took the containment fallback.
func (m Matcher) Literal() bool { return m.re == nil }

// translate rewrites the dialect into Go regexp syntax. Wildcards match
// newlines as well (flag s).
//
//	"^ic.ar"  -> "(?is)^ic.ar"
//	"fi.+ll"  -> "(?is)fi.+ll"
//	"c++"     -> "(?is)c\+\+"
func translate(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)
	b.WriteString("(?is)")

	rest := pattern
	if strings.HasPrefix(rest, "^") {
		b.WriteByte('^')
		rest = rest[1:]
	}

	for i := 0; i < len(rest); {
		if rest[i] == '.' {
			if i+1 < len(rest) && rest[i+1] == '+' {
				b.WriteString(".+")
				i += 2
				continue
			}
			b.WriteByte('.')
			i++
			continue
		}
		// Copy one full rune so multi-byte literals stay intact.
		j := i + 1
		for j < len(rest) && !isRuneStart(rest[j]) {
			j++
		}
		b.WriteString(regexp.QuoteMeta(rest[i:j]))
		i = j
	}
	return b.String()
}

func isRuneStart(c byte) bool { return c&0xC0 != 0x80 }
