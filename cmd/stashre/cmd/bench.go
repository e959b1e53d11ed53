package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench <domain>",
	Short: "Report how well a domain's labels compress",
	Long: "Abbreviates every label of the domain, counts pattern shapes and full-label\n" +
		"fallbacks, then resolves the whole domain as one batch and packs it.",
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Bench(args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(rep)
	}
	fmt.Print(formatBench(rep, config.Budget))
	return nil
}
