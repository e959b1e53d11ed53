package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var wipeForce bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show pattern cache statistics",
	Long:  "Counts cached pools and patterns. Each pool fingerprint is a distinct catalog state.",
	Args:  cobra.NoArgs,
	RunE:  runCache,
}

var cacheWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every cached pattern",
	Args:  cobra.NoArgs,
	RunE:  runCacheWipe,
}

func init() {
	cacheWipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
	cacheCmd.AddCommand(cacheWipeCmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.CacheStats()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(stats)
	}
	fmt.Printf("⚡ %d pools │ %d patterns │ %s\n", stats.Pools, stats.Patterns, paths.DB)
	return nil
}

func runCacheWipe(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		fmt.Println("⚡ no cache to wipe")
		return nil
	}

	if !wipeForce {
		fmt.Printf("⚠ This will delete every cached pattern in %s. Continue? [y/N] ", paths.DB)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.WipeCache()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ pattern cache wiped (%d pools)\n", n)
	return nil
}
