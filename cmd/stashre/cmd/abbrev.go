package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/stashre/internal/domain/pattern"
)

var abbrevCmd = &cobra.Command{
	Use:   "abbrev <domain> <label>...",
	Short: "Shortest unique pattern for each label",
	Long: "Abbreviates each label on its own against the domain's collision pool.\n" +
		"Labels are independent; use `batch` when they will be searched for together.",
	Args: cobra.MinimumNArgs(2),
	RunE: runAbbrev,
}

func runAbbrev(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	domain := args[0]
	results := make([]pattern.Result, 0, len(args)-1)
	for _, label := range args[1:] {
		r, err := a.Abbreviate(domain, label)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	if jsonOutput {
		return printJSON(results)
	}
	fmt.Print(formatResults(results))
	return nil
}
