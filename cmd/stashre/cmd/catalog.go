package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/stashre/internal/app"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog domains",
	Long:  "Shows where the catalog was loaded from and each domain's entry, fragment and base-type counts.",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Copy the embedded catalog into a directory for editing",
	Long: "Writes the embedded catalog files to dir (default .stashre/catalog). Existing files\n" +
		"are kept. Point catalog_dir at the directory to use it.",
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogExport,
}

func init() {
	catalogCmd.AddCommand(catalogExportCmd)
}

type domainSummary struct {
	Domain    string `json:"domain"`
	Entries   int    `json:"entries"`
	Fragments int    `json:"fragments"`
	BaseTypes int    `json:"base_types"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	c, source := a.Catalog()
	rows := make([]domainSummary, len(c.Domains))
	for i, d := range c.Domains {
		rows[i] = domainSummary{d.Domain, len(d.Entries), len(d.Fragments), len(d.BaseTypes)}
	}

	if jsonOutput {
		return printJSON(struct {
			Source  string          `json:"source"`
			Files   []string        `json:"files"`
			Domains []domainSummary `json:"domains"`
		}{source, c.Files, rows})
	}

	fmt.Printf("%s │ %s\n", paint(colorBold, fmt.Sprintf("⚡ %d domains", len(rows))), source)
	for _, r := range rows {
		fmt.Printf("  %-12s %s\n", paint(colorCyan, r.Domain),
			paint(colorGray, fmt.Sprintf("%d entries, %d fragments, %d base types", r.Entries, r.Fragments, r.BaseTypes)))
	}
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	dir := paths.CatalogDir
	if len(args) == 1 {
		dir = paths.Resolve(args[0])
	}

	written, err := app.ExportCatalog(dir)
	if err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	if len(written) == 0 {
		fmt.Printf("⚡ %s already has every catalog file\n", dir)
		return nil
	}
	for _, name := range written {
		fmt.Printf("  %s\n", paint(colorGreen, name))
	}
	fmt.Printf("⚡ exported %d files to %s\n", len(written), dir)
	return nil
}
