package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/store"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Load a dataset from JSON or YAML",
	Long: `Import exercises, records and assignments. <path> is either one .json,
.yaml or .yml document with exercises/records/assignments keys, or a directory
holding exercises.json, records.json and assignments.json arrays.

The whole dataset is validated first; nothing is written when any entry is
invalid. Entries whose id already exists are updated in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	stats, err := db.ImportDataset(cmd.Context(), *ds)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	logrus.WithFields(logrus.Fields{
		"path":        args[0],
		"exercises":   stats.Exercises,
		"records":     stats.Records,
		"assignments": stats.Assignments,
	}).Info("dataset imported")

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	renderImport(cmd, stats)
	return nil
}

// loadDataset reads a dataset file or directory.
func loadDataset(path string) (*workout.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return workout.LoadDir(path)
	}
	return workout.LoadFile(path)
}

func renderImport(cmd *cobra.Command, stats store.ImportStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d exercises, %d records, %d assignments\n",
		output.StyleSuccess.Render("✓"), stats.Exercises, stats.Records, stats.Assignments)
}
