package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
	suggestKind     string
	suggestWindow   window
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ranked training suggestions",
	Long: `Collect every recommendation and warning across muscle groups and
whole-history strength, score them by impact and list them from highest to
lowest.

Examples:
  liftwatch suggest
  liftwatch suggest --limit 5 --kind warning
  liftwatch suggest --category Piernas`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "Maximum number of suggestions to show (0 = all)")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Only suggestions for one muscle group")
	suggestCmd.Flags().StringVar(&suggestKind, "kind", "", "Only recommendation or warning")
	suggestWindow.register(suggestCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if suggestLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", suggestLimit)
	}
	switch suggest.Kind(suggestKind) {
	case "", suggest.KindRecommendation, suggest.KindWarning:
	default:
		return fmt.Errorf("--kind must be %q or %q, got %q", suggest.KindRecommendation, suggest.KindWarning, suggestKind)
	}

	r, err := runReport(cmd, &suggestWindow, suggestCategory, nil)
	if err != nil {
		return err
	}

	suggestions := filterByKind(r.Suggestions, suggest.Kind(suggestKind))
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), suggestions)
	}
	renderSuggestions(cmd.OutOrStdout(), suggestions)
	return nil
}

func filterByKind(all []suggest.Suggestion, kind suggest.Kind) []suggest.Suggestion {
	if kind == "" {
		return all
	}
	filtered := []suggest.Suggestion{}
	for _, s := range all {
		if s.Kind == kind {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, output.Section("Suggestions"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No suggestions. Training looks balanced.")
		return
	}

	fmt.Fprintln(w, output.Section("Training Suggestions"))
	fmt.Fprintln(w)

	for i, s := range suggestions {
		label := stylePriority(s.Priority, priorityToLabel(s.Priority))
		fmt.Fprintf(w, " #%d %s %s\n", i+1, label, output.StyleBold.Render(s.Title))
		fmt.Fprintf(w, "    Impact: %.1f  |  Group: %s  |  %s\n", s.ImpactScore, s.Category, s.Kind)
		fmt.Fprintf(w, "    %s\n", s.Description)
		fmt.Fprintln(w)
	}
}

func priorityToLabel(priority int) string {
	switch priority {
	case suggest.PriorityCritical:
		return "[CRITICAL]"
	case suggest.PriorityHigh:
		return "[HIGH]"
	case suggest.PriorityMedium:
		return "[MEDIUM]"
	case suggest.PriorityLow:
		return "[LOW]"
	default:
		return "[UNKNOWN]"
	}
}

func stylePriority(priority int, label string) string {
	switch priority {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return output.StyleError.Render(label)
	case suggest.PriorityMedium:
		return output.StyleWarning.Render(label)
	default:
		return output.StyleMuted.Render(label)
	}
}
