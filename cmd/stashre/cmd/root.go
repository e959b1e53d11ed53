package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corey/stashre/internal/app"
)

var (
	verbose    bool
	jsonOutput bool
	noColor    bool

	logger *zap.Logger
	paths  *app.Paths
	config app.Config
)

var rootCmd = &cobra.Command{
	Use:   "stashre",
	Short: "stashre — shortest unique search patterns",
	Long: "Synthesizes the shortest pattern in a tiny wildcard dialect that matches a label\n" +
		"and nothing else in its collision pool, for search boxes with a hard character budget.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		paths = app.NewPaths(projectRoot())
		var err error
		config, err = app.LoadConfig(paths.Config)
		if err != nil {
			return err
		}

		zc := zap.NewProductionConfig()
		level, _ := config.Level()
		if verbose {
			level = zapcore.DebugLevel
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		useColor = !noColor && !jsonOutput && isStdoutTTY()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// openApp wires the app for one command. The caller closes it.
func openApp() (*app.App, error) {
	a, err := app.New(app.Options{Paths: paths, Config: config, Logger: logger})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(paths))
		}
		return nil, err
	}
	return a, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(abbrevCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
}
