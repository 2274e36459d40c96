package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// balancedDeviation is the largest |deviation| (percentage points) still
// considered balanced.
const balancedDeviation = 5

// AnalyzeBalance scores every known category against the ideal distribution
// and its antagonist. Categories missing from cats are treated as untrained,
// so the result always holds one entry per known category. The result is
// sorted by descending |deviation|, then by category name.
func AnalyzeBalance(cats CategoryAnalysis, opts Options) []MuscleBalance {
	opts = opts.withDefaults()
	t := opts.Tables

	metrics := make(map[string]CategoryMetrics, len(t.Categories))
	var total float64
	for _, c := range t.Categories {
		m := CategoryMetrics{Category: c, Trend: TrendStable, StrengthLevel: LevelBeginner}
		if found := cats.Find(c); found != nil {
			m = *found
		}
		metrics[c] = m
		total += m.TotalVolume
	}

	weekly := weeklyShares(t.Categories, metrics)

	balances := make([]MuscleBalance, 0, len(t.Categories))
	for _, c := range t.Categories {
		balances = append(balances, balanceFor(c, metrics, total, weekly[c], t))
	}

	sort.SliceStable(balances, func(i, j int) bool {
		di, dj := math.Abs(balances[i].Deviation), math.Abs(balances[j].Deviation)
		if di != dj {
			return di > dj
		}
		return balances[i].Category < balances[j].Category
	})
	return balances
}

func balanceFor(c string, metrics map[string]CategoryMetrics, total float64, points []Point, t Tables) MuscleBalance {
	m := metrics[c]
	b := MuscleBalance{
		Category:        c,
		Volume:          m.TotalVolume,
		IdealPercentage: t.IdealDistribution[c],
		ProgressTrend:   m.Trend,
		WeeklyFrequency: m.WeeklyFrequency,
		Recommendations: []string{},
		Warnings:        []string{},
	}

	b.ActualPercentage = safeDiv(m.TotalVolume, total) * 100
	b.Deviation = b.ActualPercentage - b.IdealPercentage
	b.IsBalanced = math.Abs(b.Deviation) <= balancedDeviation

	b.ImbalanceSeverity = SeverityBalanced
	if ant, ok := t.Antagonists[c]; ok {
		b.Antagonist = ant
		b.AntagonistVolume = metrics[ant].TotalVolume
		b.IdealRatio = t.IdealRatio(c)
		b.AntagonistRatio = safeDiv(b.Volume, b.AntagonistVolume)
		if b.Volume > 0 || b.AntagonistVolume > 0 {
			b.RatioDeviation = safeDiv(b.AntagonistRatio-b.IdealRatio, b.IdealRatio) * 100
			if b.AntagonistVolume == 0 {
				b.RatioDeviation = 100
			}
			b.ImbalanceSeverity = imbalanceSeverity(b.RatioDeviation)
			b.HasImbalance = b.ImbalanceSeverity != SeverityBalanced
			switch {
			case b.RatioDeviation > 0:
				b.ImbalanceDirection = DirectionTooMuch
			case b.RatioDeviation < 0:
				b.ImbalanceDirection = DirectionTooLittle
			}
		}
	}

	b.StrengthIndex = StrengthIndex(m.EstimatedOneRM, t.StrengthStandards[c])
	b.PriorityLevel = priorityLevel(b.IsBalanced, b.Deviation, m.WeeklyFrequency, m.Trend)
	b.DevelopmentStage = developmentStage(b.Volume, m.WeeklyFrequency, b.StrengthIndex)

	if b.Volume == 0 {
		b.ActualPercentage = 0
		b.Deviation = -b.IdealPercentage
		b.PriorityLevel = PriorityCritical
		b.DevelopmentStage = StageNeglected
	}

	switch {
	case b.Volume == 0:
		b.SymmetryScore = 0
	case b.Antagonist != "":
		b.SymmetryScore = math.Max(0, 100-math.Abs(b.RatioDeviation))
	default:
		b.SymmetryScore = math.Max(0, 100-math.Abs(b.Deviation))
	}

	b.BalanceHistory = balanceHistory(m.SessionVolumes, points)

	b.ActualPercentage = round2(b.ActualPercentage)
	b.Deviation = round2(b.Deviation)
	b.AntagonistRatio = round2(b.AntagonistRatio)
	b.IdealRatio = round2(b.IdealRatio)
	b.RatioDeviation = round2(b.RatioDeviation)
	b.SymmetryScore = round2(b.SymmetryScore)
	return b
}

func imbalanceSeverity(ratioDeviation float64) string {
	d := math.Abs(ratioDeviation)
	switch {
	case d <= 20:
		return SeverityBalanced
	case d <= 40:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// StrengthIndex maps a 1RM onto 0-100 piecewise-linearly across the four
// standards. Above elite the excess is scaled by 30% of elite and saturates
// at 100. A zero standard yields 0.
func StrengthIndex(oneRM float64, s Standard) float64 {
	if oneRM <= 0 || s.Beginner <= 0 {
		return 0
	}
	frac := func(lo, hi float64) float64 { return (oneRM - lo) / (hi - lo) }
	var idx float64
	switch {
	case oneRM < s.Beginner:
		idx = 24 * oneRM / s.Beginner
	case oneRM < s.Intermediate:
		idx = 25 + 24*frac(s.Beginner, s.Intermediate)
	case oneRM < s.Advanced:
		idx = 50 + 19*frac(s.Intermediate, s.Advanced)
	case oneRM < s.Elite:
		idx = 70 + 19*frac(s.Advanced, s.Elite)
	default:
		idx = 90 + 10*math.Min(1, (oneRM-s.Elite)/(0.3*s.Elite))
	}
	return math.Round(clamp(idx, 0, 100))
}

// priorityLevel evaluates the priority rules in precedence order; the first
// match wins.
func priorityLevel(balanced bool, deviation, freq float64, trend string) string {
	abs := math.Abs(deviation)
	if balanced {
		switch {
		case freq < 1:
			return PriorityMedium
		case trend == TrendDeclining:
			return PriorityMedium
		default:
			return PriorityLow
		}
	}
	switch {
	case abs > 15:
		return PriorityCritical
	case abs > 10:
		return PriorityHigh
	case abs > 5:
		return PriorityMedium
	case freq < 1:
		return PriorityCritical
	case trend == TrendDeclining && abs > 3:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

func developmentStage(volume, freq, strengthIndex float64) string {
	switch {
	case volume == 0 || freq < 0.5:
		return StageNeglected
	case strengthIndex >= 70:
		return LevelAdvanced
	case strengthIndex >= 50:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// balanceHistory derives trend, consistency and volatility from per-session
// volumes. Volatility is the coefficient of variation scaled to 0-100;
// consistency is its complement once there are at least two sessions.
func balanceHistory(sessions []Point, weekly []Point) BalanceHistory {
	h := BalanceHistory{Trend: TrendStable, Points: weekly}
	if len(sessions) == 0 {
		return h
	}
	vols := make([]float64, len(sessions))
	for i, p := range sessions {
		vols[i] = p.Value
	}
	h.Volatility = round2(clamp(coefVar(vols)*100, 0, 100))
	if len(vols) >= 2 {
		h.Consistency = round2(100 - h.Volatility)
		half := len(vols) / 2
		first, second := mean(vols[:half]), mean(vols[len(vols)-half:])
		switch change := pctChange(first, second); {
		case first == 0 && second > 0, change > 10:
			h.Trend = TrendImproving
		case change < -10:
			h.Trend = TrendDeclining
		}
	}
	return h
}

// weeklyShares returns, per category, its share of known-category volume in
// each Monday-based training week.
func weeklyShares(categories []string, metrics map[string]CategoryMetrics) map[string][]Point {
	perWeek := make(map[string]map[time.Time]float64, len(categories))
	totals := make(map[time.Time]float64)
	var weeks []time.Time
	for _, c := range categories {
		perWeek[c] = make(map[time.Time]float64)
		for _, p := range metrics[c].SessionVolumes {
			w := weekStart(p.Date)
			if _, ok := totals[w]; !ok {
				weeks = append(weeks, w)
				totals[w] = 0
			}
			perWeek[c][w] += p.Value
			totals[w] += p.Value
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	out := make(map[string][]Point, len(categories))
	for _, c := range categories {
		if len(metrics[c].SessionVolumes) == 0 {
			continue
		}
		for _, w := range weeks {
			out[c] = append(out[c], Point{Date: w, Value: round2(safeDiv(perWeek[c][w], totals[w]) * 100)})
		}
	}
	return out
}

func weekStart(t time.Time) time.Time {
	d := workout.Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
