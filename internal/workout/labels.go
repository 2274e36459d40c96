package workout

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	folder = cases.Fold()
	titler = cases.Title(language.Spanish)
)

// SameLabel reports whether two muscle-group labels name the same group,
// ignoring case and surrounding whitespace.
func SameLabel(a, b string) bool {
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// FoldLabel returns the comparison key for a label.
func FoldLabel(label string) string {
	return folder.String(strings.TrimSpace(label))
}

// CanonicalCategory maps label onto the matching entry of known. Labels that
// match nothing are title-cased; empty labels become Uncategorized.
func CanonicalCategory(label string, known []string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return Uncategorized
	}
	if SameLabel(trimmed, Uncategorized) {
		return Uncategorized
	}
	for _, k := range known {
		if SameLabel(trimmed, k) {
			return k
		}
	}
	return titler.String(trimmed)
}

// WeekdayOrder returns the Monday-first position (0-6) of a day label, or 7
// when the label is not a known day.
func WeekdayOrder(label string) int {
	for i := 0; i < 7; i++ {
		if SameLabel(label, weekdayLabels[(i+1)%7]) {
			return i
		}
	}
	return 7
}
