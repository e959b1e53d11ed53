package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/stashre/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows project paths and the effective settings from .stashre/config.toml.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	if jsonOutput {
		return printJSON(struct {
			Paths  *app.Paths `json:"paths"`
			Config app.Config `json:"config"`
		}{paths, config})
	}

	fileState := paint(colorGray, "(defaults, no file)")
	if _, err := os.Stat(paths.Config); err == nil {
		fileState = paint(colorGreen, "✓")
	}
	catalog := "embedded"
	if config.CatalogDir != "" {
		catalog = paths.Resolve(config.CatalogDir)
	}
	cache := paint(colorYellow, "off")
	if config.Cache {
		cache = paths.DB
	}
	budget := fmt.Sprintf("%d chars", config.Budget)
	if config.Budget == 0 {
		budget = "unlimited"
	}

	fmt.Printf("%s\n", paint(colorBold, "⚡ stashre config"))
	fmt.Printf("  Root:       %s\n", paths.ProjectRoot)
	fmt.Printf("  Config:     %s %s\n", paths.Config, fileState)
	fmt.Printf("  Catalog:    %s (%s)\n", catalog, config.Include)
	fmt.Printf("  Cache:      %s\n", cache)
	fmt.Printf("  Budget:     %s\n", budget)
	fmt.Printf("  Rounds:     %d\n", config.Rounds)
	fmt.Printf("  Workers:    %d\n", config.Workers)
	fmt.Printf("  Log level:  %s\n", config.LogLevel)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(paths.Config); err == nil {
		return fmt.Errorf("%s already exists", paths.Config)
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	if err := app.SaveConfig(paths.Config, app.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("⚡ wrote %s\n", paths.Config)
	return nil
}
