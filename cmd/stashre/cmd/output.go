package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/corey/stashre/internal/app"
	"github.com/corey/stashre/internal/domain/pattern"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// useColor is decided once per run from --no-color, --json and the TTY.
var useColor = true

// paint wraps s in color when color output is on.
func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// labelWidth is the widest label, for column alignment.
func labelWidth(results []pattern.Result) int {
	w := 0
	for _, r := range results {
		if n := utf8.RuneCountInString(r.Label); n > w {
			w = n
		}
	}
	return w
}

// formatResults renders one line per label.
//
//	⚡ 2 patterns │ 4 chars
//	  Fireball    fi   substring
//	  Frost Bomb  t.b  bridge
func formatResults(results []pattern.Result) string {
	var sb strings.Builder
	chars := 0
	for _, r := range results {
		chars += pattern.Len(r.Pattern)
	}
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d patterns", len(results))))
	sb.WriteString(fmt.Sprintf(" │ %d chars\n", chars))

	w := labelWidth(results)
	for _, r := range results {
		pad := strings.Repeat(" ", w-utf8.RuneCountInString(r.Label))
		shape := paint(colorGray, r.Shape.String())
		if r.Fallback() {
			shape = paint(colorYellow, "full label, no shorter unique pattern")
		}
		sb.WriteString(fmt.Sprintf("  %s%s  %s  %s\n", r.Label, pad, paint(colorCyan, r.Pattern), shape))
	}
	return sb.String()
}

// formatPacked renders search strings ready to paste, one per line.
func formatPacked(packed []string, budget int) string {
	var sb strings.Builder
	limit := "no budget"
	if budget > 0 {
		limit = fmt.Sprintf("budget %d", budget)
	}
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d search strings", len(packed))))
	sb.WriteString(fmt.Sprintf(" │ %s\n", limit))
	for _, s := range packed {
		over := ""
		if budget > 0 && len(s) > budget {
			over = paint(colorYellow, "  (over budget)")
		}
		sb.WriteString(fmt.Sprintf("  %s%s\n", paint(colorGreen, s), over))
	}
	return sb.String()
}

// formatAssignment renders a resolved batch and its residual conflicts.
func formatAssignment(as *pattern.Assignment) string {
	var sb strings.Builder
	sb.WriteString(formatResults(as.Results))
	sb.WriteString(paint(colorGray, fmt.Sprintf("  %d repair rounds │ %d seeded from cache\n", as.Rounds, as.Seeded)))
	for _, c := range as.Conflicts {
		sb.WriteString(paint(colorYellow, fmt.Sprintf("  ⚠ %s (%s) still matches %s\n", c.Label, c.Pattern, c.Sibling)))
	}
	return sb.String()
}

// formatBench renders a bench report.
func formatBench(rep *app.BenchReport, budget int) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %s", rep.Domain)))
	sb.WriteString(fmt.Sprintf(" │ %d labels │ pool %d (%s) │ %d cached\n",
		len(rep.Results), rep.PoolSize, rep.PoolID, rep.CacheHits))

	shapes := make([]string, 0, len(rep.Shapes))
	for s := range rep.Shapes {
		shapes = append(shapes, s)
	}
	sort.Strings(shapes)
	parts := make([]string, len(shapes))
	for i, s := range shapes {
		parts[i] = fmt.Sprintf("%s %d", s, rep.Shapes[s])
	}
	sb.WriteString(fmt.Sprintf("  shapes:       %s\n", strings.Join(parts, ", ")))
	sb.WriteString(fmt.Sprintf("  compression:  %.0f%% of label length\n", rep.Compression*100))
	if len(rep.Fallbacks) > 0 {
		sb.WriteString(paint(colorYellow, fmt.Sprintf("  fallbacks:    %s\n", strings.Join(rep.Fallbacks, ", "))))
	}
	sb.WriteString("\n")
	sb.WriteString(formatAssignment(rep.Batch))
	sb.WriteString("\n")
	sb.WriteString(formatPacked(rep.Packed, budget))
	return sb.String()
}
