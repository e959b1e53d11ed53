package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/stashre/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch [domain]",
	Short: "Reload the catalog on edits and re-bench a domain",
	Long: "Watches catalog_dir. Each change reloads the catalog; with a domain argument the\n" +
		"domain is re-benched so the effect of an edit on its patterns is visible at once.\n" +
		"Runs until interrupted.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	domain := ""
	if len(args) == 1 {
		domain = args[0]
	}
	fmt.Printf("⚡ watching %s (ctrl-c to stop)\n", paths.Resolve(config.CatalogDir))

	return a.Watch(ctx, func(ev app.ReloadEvent) {
		if ev.Err != nil {
			fmt.Println(paint(colorYellow, fmt.Sprintf("⚠ %s: %v (keeping previous catalog)", ev.Path, ev.Err)))
			return
		}
		fmt.Printf("⚡ reloaded │ %d domains, %d entries\n", ev.Stats.Domains, ev.Stats.Entries)
		if domain == "" {
			return
		}
		rep, err := a.Bench(domain)
		if err != nil {
			fmt.Println(paint(colorYellow, fmt.Sprintf("⚠ bench %s: %v", domain, err)))
			return
		}
		fmt.Print(formatBench(rep, config.Budget))
	})
}
