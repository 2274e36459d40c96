package output

import (
	"fmt"
	"strings"
)

// ScoreBar renders a visual progress bar for a 0-100 score.
// Example: "████████░░ 80/100"
func ScoreBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := min(max(int((score/100.0)*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleError
	switch {
	case score >= 70:
		style = StyleSuccess
	case score >= 40:
		style = StyleWarning
	}
	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%.0f/100", score)))
}

// DeviationBar renders a signed deviation in percentage points around a
// center mark, e.g. "   ◆███" for +6.
func DeviationBar(deviation float64, halfWidth int) string {
	if halfWidth <= 0 {
		halfWidth = 10
	}
	n := min(int(abs(deviation)/2+0.5), halfWidth)
	left := strings.Repeat(" ", halfWidth)
	right := strings.Repeat(" ", halfWidth)
	bar := strings.Repeat("█", n)
	style := StyleSuccess
	if abs(deviation) > 5 {
		style = StyleWarning
	}
	if abs(deviation) > 15 {
		style = StyleError
	}
	if deviation < 0 {
		left = strings.Repeat(" ", halfWidth-n) + style.Render(bar)
	} else {
		right = style.Render(bar) + strings.Repeat(" ", halfWidth-n)
	}
	return left + StyleMuted.Render("◆") + right
}

// TrendArrow returns a styled trend indicator for a delta value.
// The higherIsBetter parameter decides whether growth is colored as good.
func TrendArrow(delta float64, higherIsBetter bool) string {
	return arrow(delta, higherIsBetter, "%+.1f")
}

// TrendArrowPercent returns a styled trend indicator for a percentage delta.
func TrendArrowPercent(delta float64, higherIsBetter bool) string {
	return arrow(delta, higherIsBetter, "%+.0f%%")
}

func arrow(delta float64, higherIsBetter bool, format string) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}
	improved := (delta > 0) == higherIsBetter
	glyph := "▼"
	if delta > 0 {
		glyph = "▲"
	}
	s := glyph + " " + fmt.Sprintf(format, delta)
	if improved {
		return StyleSuccess.Render(s)
	}
	return StyleError.Render(s)
}

// TrendLabel styles an improving/stable/declining label.
func TrendLabel(trend string) string {
	switch trend {
	case "improving":
		return StyleSuccess.Render("▲ " + trend)
	case "declining":
		return StyleError.Render("▼ " + trend)
	default:
		return StyleMuted.Render("─ " + trend)
	}
}

// PriorityLabel styles a low/medium/high/critical label.
func PriorityLabel(priority string) string {
	switch priority {
	case "critical":
		return StyleError.Inherit(StyleBold).Render(strings.ToUpper(priority))
	case "high":
		return StyleError.Render(priority)
	case "medium":
		return StyleWarning.Render(priority)
	default:
		return StyleMuted.Render(priority)
	}
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
