// Package app contains the Cobra command tree for liftwatch.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/config"
	"github.com/blackwell-systems/liftwatch/internal/logging"
	"github.com/blackwell-systems/liftwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

// cfg is loaded once per invocation by the root pre-run hook.
var (
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "liftwatch",
	Short: "Strength-training analytics for your workout log",
	Long: `liftwatch analyzes a strength-training log: per-muscle-group volume,
frequency and estimated 1RM, antagonist balance against an ideal volume
distribution, whole-history strength progress, and ranked suggestions.

Data lives in a local SQLite database. Load it with 'liftwatch import' or
log sessions one at a time with 'liftwatch record add'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "liftwatch", appVersion)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use a subcommand:")
		fmt.Fprintln(out, "  analyze   Per-muscle-group metrics")
		fmt.Fprintln(out, "  balance   Muscle balance, priorities and advice")
		fmt.Fprintln(out, "  strength  Whole-history strength progress")
		fmt.Fprintln(out, "  suggest   Ranked training suggestions")
		fmt.Fprintln(out, "  record    Add, list or delete workout records")
		fmt.Fprintln(out, "  exercise  Add or list exercises")
		fmt.Fprintln(out, "  import    Load a dataset from JSON or YAML")
		fmt.Fprintln(out, "  track     Snapshot and compare metrics over time")
		fmt.Fprintln(out, "  watch     Alert on new sessions and balance shifts")
		fmt.Fprintln(out, "  mcp       Serve the analysis as MCP tools over stdio")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/liftwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	logCloser = logging.Setup(logging.Params{
		Level:  level,
		File:   cfg.Log.File,
		Mirror: flagVerbose,
		JSON:   cfg.Log.JSON,
	})

	output.AutoColor(cfg.Output.Color && !flagNoColor)
	logrus.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"db":      cfg.DBPath,
	}).Debug("starting")
	return nil
}
