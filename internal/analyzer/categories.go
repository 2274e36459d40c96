package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// contribution is one record credited (fully or partly) to a category.
type contribution struct {
	record   workout.Record
	load     workout.Load
	fraction float64
}

// attribute walks the sorted records once and groups them by category.
// It returns the groups and the number of unresolved records.
func attribute(records []workout.Record, in Input, t Tables) (map[string][]contribution, int) {
	groups := make(map[string][]contribution)
	unresolved := 0
	for _, r := range records {
		ex := in.resolve(r.ExerciseID)
		if ex == nil {
			unresolved++
		}
		load := r.Load()
		for c, f := range Attribution(ex, t) {
			groups[c] = append(groups[c], contribution{record: r, load: load, fraction: f})
		}
	}
	return groups, unresolved
}

// AnalyzeCategories computes CategoryMetrics for every known category, in
// table order, plus workout.Uncategorized when unresolved records exist.
func AnalyzeCategories(in Input, opts Options) CategoryAnalysis {
	opts = opts.withDefaults()
	records := workout.SortedRecords(in.Records)
	asOf := referenceTime(records, opts.Now)

	groups, unresolved := attribute(records, in, opts.Tables)

	labels := append([]string(nil), opts.Tables.Categories...)
	if _, ok := groups[workout.Uncategorized]; ok {
		labels = append(labels, workout.Uncategorized)
	}

	result := CategoryAnalysis{
		AsOf:              asOf,
		UnresolvedRecords: unresolved,
		TotalRecords:      len(records),
	}

	var filter string
	if opts.Category != "" {
		filter = workout.CanonicalCategory(opts.Category, opts.Tables.Categories)
	}

	for _, c := range labels {
		m := categoryMetrics(c, groups[c], in, opts, asOf)
		if c != workout.Uncategorized {
			result.TotalVolume += m.TotalVolume
		}
		if filter != "" && c != filter {
			continue
		}
		result.Metrics = append(result.Metrics, m)
	}
	result.TotalVolume = round2(result.TotalVolume)
	return result
}

func categoryMetrics(category string, contribs []contribution, in Input, opts Options, asOf time.Time) CategoryMetrics {
	m := CategoryMetrics{
		Category:      category,
		Trend:         TrendStable,
		StrengthLevel: LevelBeginner,
	}
	m.MissedProgrammedDays = missedDays(category, contribs, in, opts.Tables)
	if len(contribs) == 0 {
		return m
	}

	var (
		weights, reps, sets []float64
		oneRMs              []float64
		rawVolume           float64
		sessionVol          = make(map[time.Time]float64)
		days                []time.Time
	)
	m.MinWeight = math.Inf(1)
	for _, c := range contribs {
		l := c.load
		vol := l.Volume()
		m.TotalVolume += vol * c.fraction
		m.TotalSets += l.SetCount()
		m.TotalReps += l.TotalReps()
		rawVolume += vol
		weights = append(weights, l.AvgWeight())
		reps = append(reps, l.AvgReps())
		sets = append(sets, float64(l.SetCount()))
		m.MaxWeight = math.Max(m.MaxWeight, l.MaxWeight())
		m.MinWeight = math.Min(m.MinWeight, l.MinWeight())

		orm := RecordOneRepMax(c.record)
		oneRMs = append(oneRMs, orm)
		m.EstimatedOneRM = math.Max(m.EstimatedOneRM, orm)
		m.OneRMSeries = append(m.OneRMSeries, Point{Date: c.record.Date, Value: round2(orm)})

		d := workout.Day(c.record.Date)
		if _, ok := sessionVol[d]; !ok {
			days = append(days, d)
		}
		sessionVol[d] += vol * c.fraction
	}

	m.WorkoutCount = len(contribs)
	m.SessionCount = len(days)
	m.AvgWeight = mean(weights)
	m.AvgReps = mean(reps)
	m.AvgSets = mean(sets)

	for _, d := range days {
		m.SessionVolumes = append(m.SessionVolumes, Point{Date: d, Value: round2(sessionVol[d])})
	}

	spanDays := math.Max(1, days[len(days)-1].Sub(days[0]).Hours()/24)
	weeks := math.Max(1, spanDays/7)
	m.WeeklyFrequency = float64(m.WorkoutCount) / weeks
	m.SessionsPerWeek = float64(m.SessionCount) / weeks

	first, last := contribs[0].load, contribs[len(contribs)-1].load
	m.WeightProgression = pctChange(first.AvgWeight(), last.AvgWeight())
	m.VolumeProgression = pctChange(first.Volume(), last.Volume())

	if m.MaxWeight > 0 {
		m.IntensityScore = math.Round(m.AvgWeight / m.MaxWeight * 100)
		avgSetVolume := safeDiv(rawVolume, float64(m.TotalSets))
		m.EfficiencyScore = clamp(avgSetVolume/(m.MaxWeight*10)*100, 0, 100)
	}
	m.ConsistencyScore = consistencyScore(m.WeeklyFrequency, days)

	lastDay := days[len(days)-1]
	if since := workout.Day(asOf).Sub(lastDay).Hours() / 24; since > 0 {
		m.DaysSinceLastWorkout = int(math.Round(since))
	}

	m.Trend = trendOf(oneRMs, opts.Thresholds.TrendPct)
	m.StrengthLevel = strengthLevel(m.EstimatedOneRM, opts.Tables.StrengthStandards[category])

	m.TotalVolume = round2(m.TotalVolume)
	m.AvgWeight = round2(m.AvgWeight)
	m.AvgReps = round2(m.AvgReps)
	m.AvgSets = round2(m.AvgSets)
	m.WeeklyFrequency = round2(m.WeeklyFrequency)
	m.SessionsPerWeek = round2(m.SessionsPerWeek)
	m.EstimatedOneRM = round2(m.EstimatedOneRM)
	m.WeightProgression = round2(m.WeightProgression)
	m.VolumeProgression = round2(m.VolumeProgression)
	m.EfficiencyScore = round2(m.EfficiencyScore)
	m.ConsistencyScore = round2(m.ConsistencyScore)
	return m
}

// consistencyScore blends training frequency (up to 3/week) with the
// regularity of the gaps between sessions.
func consistencyScore(freq float64, days []time.Time) float64 {
	score := math.Min(freq, 3) / 3 * 50
	if len(days) < 2 {
		return score
	}
	gaps := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, days[i].Sub(days[i-1]).Hours()/24)
	}
	score += (1 - math.Min(coefVar(gaps), 1)) * 50
	return clamp(score, 0, 100)
}

// trendOf compares the mean of the last k values with the k before them,
// k = min(5, n/2).
func trendOf(values []float64, thresholdPct float64) string {
	n := len(values)
	k := n / 2
	if k > 5 {
		k = 5
	}
	if k < 1 {
		return TrendStable
	}
	recent := mean(values[n-k:])
	previous := mean(values[n-2*k : n-k])
	if previous == 0 {
		if recent > 0 {
			return TrendImproving
		}
		return TrendStable
	}
	change := pctChange(previous, recent)
	switch {
	case change > thresholdPct:
		return TrendImproving
	case change < -thresholdPct:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// strengthLevel classifies a 1RM against a category's standards. A zero
// standard (unknown category) always yields beginner.
func strengthLevel(oneRM float64, s Standard) string {
	switch {
	case s.Advanced > 0 && oneRM >= s.Advanced:
		return LevelAdvanced
	case s.Intermediate > 0 && oneRM >= s.Intermediate:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// missedDays lists the programmed days for category's exercises on which no
// contributing record was logged, Monday first.
func missedDays(category string, contribs []contribution, in Input, t Tables) []string {
	if len(in.Assignments) == 0 {
		return nil
	}
	trained := make(map[string]bool)
	for _, c := range contribs {
		trained[workout.FoldLabel(c.record.Weekday())] = true
	}

	seen := make(map[string]bool)
	var missed []string
	for _, a := range in.Assignments {
		if Attribution(in.resolve(a.ExerciseID), t)[category] == 0 {
			continue
		}
		key := workout.FoldLabel(a.DayOfWeek)
		if key == "" || trained[key] || seen[key] {
			continue
		}
		seen[key] = true
		missed = append(missed, a.DayOfWeek)
	}
	sort.SliceStable(missed, func(i, j int) bool {
		oi, oj := workout.WeekdayOrder(missed[i]), workout.WeekdayOrder(missed[j])
		if oi != oj {
			return oi < oj
		}
		return missed[i] < missed[j]
	})
	return missed
}
