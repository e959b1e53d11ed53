package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	batchAll  bool
	batchPack bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <domain> [label...]",
	Short: "Mutually exclusive patterns for labels searched together",
	Long: "Resolves a set of labels so that no label's pattern matches another label in the set,\n" +
		"while each stays unique against the domain's collision pool.",
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchAll, "all", false, "Resolve every label of the domain")
	batchCmd.Flags().BoolVar(&batchPack, "pack", false, "Also print budget-packed search strings")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	domain, labels := args[0], args[1:]
	if batchAll {
		if labels, err = a.Labels(domain); err != nil {
			return err
		}
	}

	as, err := a.Batch(domain, labels)
	if err != nil {
		return err
	}

	var packed []string
	if batchPack {
		packed = a.Pack(-1, as.Patterns())
	}

	if jsonOutput {
		return printJSON(struct {
			Assignment any      `json:"assignment"`
			Packed     []string `json:"packed,omitempty"`
		}{as, packed})
	}
	fmt.Print(formatAssignment(as))
	if batchPack {
		fmt.Print(formatPacked(packed, config.Budget))
	}
	return nil
}
