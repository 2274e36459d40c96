package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var (
	exerciseID         string
	exerciseCategories []string
)

var exerciseCmd = &cobra.Command{
	Use:   "exercise",
	Short: "Add or list exercises",
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise tagged with muscle groups",
	Long: `Add an exercise. Tag it with every muscle group it trains; its volume is
split between them.

Examples:
  liftwatch exercise add "Press inclinado" --category Pecho --category Hombros
  liftwatch exercise add Sentadilla --id squat --category Piernas`,
	Args: cobra.ExactArgs(1),
	RunE: runExerciseAdd,
}

var exerciseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercises by name",
	Args:  cobra.NoArgs,
	RunE:  runExerciseList,
}

func init() {
	exerciseAddCmd.Flags().StringVar(&exerciseID, "id", "", "Exercise id (default: generated)")
	exerciseAddCmd.Flags().StringSliceVar(&exerciseCategories, "category", nil, "Muscle group, repeatable or comma-separated")

	exerciseCmd.AddCommand(exerciseAddCmd, exerciseListCmd)
	rootCmd.AddCommand(exerciseCmd)
}

func runExerciseAdd(cmd *cobra.Command, args []string) error {
	opts, err := cfg.AnalyzerOptions()
	if err != nil {
		return fmt.Errorf("loading reference tables: %w", err)
	}

	ex := workout.Exercise{ID: exerciseID, Name: strings.TrimSpace(args[0])}
	for _, c := range exerciseCategories {
		canonical := workout.CanonicalCategory(c, opts.Tables.Categories)
		if !slices.Contains(opts.Tables.Categories, canonical) {
			return fmt.Errorf("unknown muscle group %q (known: %s)", c, strings.Join(opts.Tables.Categories, ", "))
		}
		ex.Categories = append(ex.Categories, canonical)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.CreateExercise(cmd.Context(), &ex); err != nil {
		return fmt.Errorf("saving exercise: %w", err)
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), ex)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s [%s] (%s)\n",
		output.StyleSuccess.Render("✓"), ex.Name, strings.Join(ex.Categories, ", "), ex.ID)
	return nil
}

func runExerciseList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	exercises, err := db.ListExercises(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing exercises: %w", err)
	}
	if flagJSON {
		if exercises == nil {
			exercises = []workout.Exercise{}
		}
		return writeJSON(cmd.OutOrStdout(), exercises)
	}

	out := cmd.OutOrStdout()
	if len(exercises) == 0 {
		fmt.Fprintln(out, " No exercises.")
		return nil
	}
	tbl := output.NewTable("Name", "Groups", "ID")
	for _, ex := range exercises {
		groups := strings.Join(ex.Categories, ", ")
		if groups == "" {
			groups = output.StyleMuted.Render(workout.Uncategorized)
		}
		tbl.AddRow(ex.Name, groups, output.StyleMuted.Render(ex.ID))
	}
	tbl.Fprint(out)
	return nil
}
