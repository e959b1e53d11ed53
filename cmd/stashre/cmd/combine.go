package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/stashre/internal/domain/pattern"
)

var combineBudget int

var combineCmd = &cobra.Command{
	Use:   "combine [pattern...]",
	Short: "Merge patterns into budget-sized search strings",
	Long: "Drops duplicate and subsumed patterns, joins the rest with '|', and splits them\n" +
		"into search strings that fit the budget. Reads one pattern per line from stdin\n" +
		"when no arguments are given.",
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().IntVar(&combineBudget, "budget", -1, "Character budget per search string (0 = unlimited, default from config)")
}

func runCombine(cmd *cobra.Command, args []string) error {
	patterns := args
	if len(patterns) == 0 && isStdinPipe() {
		var err error
		if patterns, err = readLines(os.Stdin); err != nil {
			return err
		}
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns: pass them as arguments or on stdin")
	}

	budget := combineBudget
	if budget < 0 {
		budget = config.Budget
	}
	packed := pattern.Pack(pattern.Combine(patterns), budget)

	if jsonOutput {
		return printJSON(packed)
	}
	fmt.Print(formatPacked(packed, budget))
	return nil
}

// readLines returns the non-blank lines of f, trimmed.
func readLines(f *os.File) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
