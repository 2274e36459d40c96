package analyzer

import (
	"math"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// Phase and intensity zone labels.
const (
	PhaseNovice       = "novice"
	PhaseIntermediate = "intermediate"
	PhaseAdvanced     = "advanced"
	PhaseElite        = "elite"

	ZoneVolume    = "volume"
	ZoneIntensity = "intensity"
	ZonePeaking   = "peaking"
	ZoneDeload    = "deload"
)

// Rate labels.
const (
	RateSlow        = "slow"
	RateModerate    = "moderate"
	RateFast        = "fast"
	RateExceptional = "exceptional"
)

const (
	// predictionWindow is the number of most recent sessions the trend is fitted on.
	predictionWindow = 8
	// highPlateauRisk triggers a deload recommendation.
	highPlateauRisk = 70
)

var repBuckets = []struct {
	label    string
	min, max int
}{
	{"1-3", 1, 3},
	{"4-6", 4, 6},
	{"7-10", 7, 10},
	{"11-15", 11, 15},
	{"16+", 16, 0},
}

// session is one training day.
type session struct {
	day    time.Time
	oneRM  float64
	volume float64
}

// AnalyzeStrength evaluates progress over the whole record set. It returns
// nil when there are no records.
func AnalyzeStrength(in Input, opts Options) *StrengthProgressAnalysis {
	opts = opts.withDefaults()
	records := workout.SortedRecords(in.Records)
	if len(records) == 0 {
		return nil
	}
	th := opts.Thresholds

	sessions := groupSessions(records)
	n := len(sessions)
	spanDays := sessions[n-1].day.Sub(sessions[0].day).Hours() / 24

	a := &StrengthProgressAnalysis{
		RecordCount:  len(records),
		SessionCount: n,
		FirstSession: sessions[0].day,
		LastSession:  sessions[n-1].day,
	}
	oneRMs := make([]float64, n)
	volumes := make([]float64, n)
	for i, s := range sessions {
		oneRMs[i] = s.oneRM
		volumes[i] = s.volume
		a.CurrentMax = math.Max(a.CurrentMax, s.oneRM)
	}

	// Overall progress.
	k := max(1, min(3, n/3))
	op := OverallProgress{Start: mean(oneRMs[:k]), End: mean(oneRMs[n-k:])}
	op.Absolute = op.End - op.Start
	op.Percentage = pctChange(op.Start, op.End)
	op.WeeklyRate = op.Percentage / math.Max(1, spanDays/7)
	op.Rate = rateLabel(op.WeeklyRate, th.Rates)

	// Consistency.
	changes := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		changes = append(changes, pctChange(oneRMs[i-1], oneRMs[i]))
	}
	cm := ConsistencyMetrics{VolatilityIndex: stddev(changes)}
	var nonNegative int
	for _, c := range changes {
		if c >= 0 {
			nonNegative++
		}
		if c > th.Plateau.BreakthroughPct {
			cm.BreakthroughCount++
		}
	}
	cm.ProgressionConsistency = safeDiv(float64(nonNegative), float64(len(changes))) * 100
	cm.PlateauPeriods = countPlateaus(changes, th.Plateau)

	// Predictions.
	window := sessions[max(0, n-predictionWindow):]
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	for i, s := range window {
		xs[i] = s.day.Sub(window[0].day).Hours() / 24
		ys[i] = s.oneRM
	}
	slope, intercept := linearFit(xs, ys)
	base := intercept + slope*xs[len(xs)-1]

	pr := Predictions{
		FourWeekPR:   math.Max(0, base+slope*28),
		TwelveWeekPR: math.Max(0, base+slope*84),
	}
	pr.PlateauRisk = plateauRisk(cm.PlateauPeriods, op.WeeklyRate, slope, th.Rates)
	if pr.FourWeekPR > a.CurrentMax && slope > 0 {
		avgGap := math.Max(1, safeDiv(spanDays, float64(n-1)))
		daysNeeded := math.Max(0, (a.CurrentMax-base)/slope)
		pr.TimeToNextPR = max(1, int(math.Ceil(daysNeeded/avgGap)))
	}
	unresolved := 0
	for _, r := range records {
		if in.resolve(r.ExerciseID) == nil {
			unresolved++
		}
	}
	pr.Confidence = clamp(100-
		2*cm.VolatilityIndex-
		8*math.Max(0, float64(predictionWindow-n))-
		20*float64(unresolved)/float64(len(records)), 0, 100)

	// Strength curve.
	std := aggregateStandard(records, in, opts.Tables)
	curve := StrengthCurve{Phase: phaseOf(a.CurrentMax, std), GainRate: op.WeeklyRate}
	if std.Elite > 0 {
		curve.Potential = math.Max(0, (std.Elite-a.CurrentMax)/std.Elite*100)
	}

	training := trainingFor(curve.Phase, pr.PlateauRisk, float64(n)/math.Max(1, spanDays/7))
	reps := repRanges(records)
	quality := qualityOf(records, volumes, op, cm.VolatilityIndex, pr.PlateauRisk)

	a.CurrentMax = round2(a.CurrentMax)
	a.OverallProgress = OverallProgress{
		Start:      round2(op.Start),
		End:        round2(op.End),
		Absolute:   round2(op.Absolute),
		Percentage: round2(op.Percentage),
		WeeklyRate: round2(op.WeeklyRate),
		Rate:       op.Rate,
	}
	a.Consistency = ConsistencyMetrics{
		ProgressionConsistency: round2(cm.ProgressionConsistency),
		PlateauPeriods:         cm.PlateauPeriods,
		BreakthroughCount:      cm.BreakthroughCount,
		VolatilityIndex:        round2(cm.VolatilityIndex),
	}
	a.Predictions = Predictions{
		FourWeekPR:   round2(pr.FourWeekPR),
		TwelveWeekPR: round2(pr.TwelveWeekPR),
		PlateauRisk:  round2(pr.PlateauRisk),
		TimeToNextPR: pr.TimeToNextPR,
		Confidence:   round2(pr.Confidence),
	}
	a.StrengthCurve = StrengthCurve{
		Phase:     curve.Phase,
		GainRate:  round2(curve.GainRate),
		Potential: round2(curve.Potential),
	}
	a.Training = training
	a.RepRanges = reps
	a.Quality = quality
	return a
}

// groupSessions collapses sorted records into training days. A session's
// 1RM is the best record 1RM of that day.
func groupSessions(records []workout.Record) []session {
	var sessions []session
	for _, r := range records {
		d := workout.Day(r.Date)
		if len(sessions) == 0 || !sessions[len(sessions)-1].day.Equal(d) {
			sessions = append(sessions, session{day: d})
		}
		s := &sessions[len(sessions)-1]
		s.oneRM = math.Max(s.oneRM, RecordOneRepMax(r))
		s.volume += RecordVolume(r)
	}
	return sessions
}

func rateLabel(weeklyRate float64, c RateCutpoints) string {
	switch {
	case weeklyRate >= c.Exceptional:
		return RateExceptional
	case weeklyRate >= c.Fast:
		return RateFast
	case weeklyRate >= c.Moderate:
		return RateModerate
	default:
		return RateSlow
	}
}

// countPlateaus counts maximal runs of flat intervals spanning at least
// MinSessions sessions.
func countPlateaus(changes []float64, p PlateauRules) int {
	count, run := 0, 0
	flush := func() {
		if run > 0 && run+1 >= p.MinSessions {
			count++
		}
		run = 0
	}
	for _, c := range changes {
		if math.Abs(c) < p.TolerancePct {
			run++
			continue
		}
		flush()
	}
	flush()
	return count
}

// plateauRisk grows with past plateaus, a weak or negative weekly rate and a
// flat or falling fitted trend.
func plateauRisk(plateaus int, weeklyRate, slope float64, c RateCutpoints) float64 {
	risk := 20 * float64(plateaus)
	switch {
	case weeklyRate < c.Moderate:
		risk += 30
	case weeklyRate < c.Fast:
		risk += 15
	}
	if slope <= 0 {
		risk += 20
	}
	return clamp(risk, 0, 100)
}

// aggregateStandard weights each category's standards by the volume credited
// to it. Without any credited volume it falls back to a plain average.
func aggregateStandard(records []workout.Record, in Input, t Tables) Standard {
	groups, _ := attribute(records, in, t)
	var weighted, plain Standard
	var totalW float64
	var count int
	for _, c := range t.Categories {
		s, ok := t.StrengthStandards[c]
		if !ok {
			continue
		}
		var w float64
		for _, contrib := range groups[c] {
			w += contrib.load.Volume() * contrib.fraction
		}
		weighted = addStandard(weighted, s, w)
		plain = addStandard(plain, s, 1)
		totalW += w
		count++
	}
	switch {
	case totalW > 0:
		return scaleStandard(weighted, 1/totalW)
	case count > 0:
		return scaleStandard(plain, 1/float64(count))
	default:
		return Standard{}
	}
}

func addStandard(acc, s Standard, w float64) Standard {
	return Standard{
		Beginner:     acc.Beginner + s.Beginner*w,
		Intermediate: acc.Intermediate + s.Intermediate*w,
		Advanced:     acc.Advanced + s.Advanced*w,
		Elite:        acc.Elite + s.Elite*w,
	}
}

func scaleStandard(s Standard, f float64) Standard {
	return addStandard(Standard{}, s, f)
}

func phaseOf(oneRM float64, s Standard) string {
	switch {
	case s.Elite <= 0:
		return PhaseNovice
	case oneRM >= s.Elite:
		return PhaseElite
	case oneRM >= s.Advanced:
		return PhaseAdvanced
	case oneRM >= s.Intermediate:
		return PhaseIntermediate
	default:
		return PhaseNovice
	}
}

var zoneSettings = map[string]struct {
	rpe       float64
	volumeAdj float64
	tip       string
}{
	ZoneVolume:    {7, 10, "Build work capacity: add a set to main lifts and keep 2-3 reps in reserve."},
	ZoneIntensity: {8, -10, "Shift toward heavier sets of 3-6 reps and trim accessory volume."},
	ZonePeaking:   {9, -20, "Peak with low-volume heavy singles and doubles before testing a new max."},
	ZoneDeload:    {5, -40, "Take a deload week at reduced load and volume, then restart progression."},
}

func trainingFor(phase string, risk, sessionsPerWeek float64) TrainingRecommendations {
	zone := ZoneVolume
	switch {
	case risk >= highPlateauRisk:
		zone = ZoneDeload
	case phase == PhaseIntermediate && risk >= 40:
		zone = ZoneIntensity
	case phase == PhaseAdvanced:
		zone = ZoneIntensity
	case phase == PhaseElite:
		zone = ZonePeaking
	}
	set := zoneSettings[zone]

	freq := 0
	switch {
	case zone == ZoneDeload:
		freq = -1
	case sessionsPerWeek < 2:
		freq = 1
	case sessionsPerWeek > 5:
		freq = -1
	}

	return TrainingRecommendations{
		IntensityZone:       zone,
		SuggestedRPE:        set.rpe,
		VolumeAdjustment:    set.volumeAdj,
		FrequencyAdjustment: freq,
		PeriodizationTip:    set.tip,
	}
}

func bucketOf(reps int) int {
	for i, b := range repBuckets {
		if reps >= b.min && (b.max == 0 || reps <= b.max) {
			return i
		}
	}
	return -1
}

// repRanges always returns all five buckets.
func repRanges(records []workout.Record) []RepRange {
	out := make([]RepRange, len(repBuckets))
	series := make([][]float64, len(repBuckets))
	var total float64
	for i, b := range repBuckets {
		out[i] = RepRange{Label: b.label, MinReps: b.min, MaxReps: b.max}
	}
	for _, r := range records {
		best := make([]float64, len(repBuckets))
		for _, s := range r.Load().Expand() {
			i := bucketOf(s.Reps)
			if i < 0 {
				continue
			}
			vol := s.Weight * float64(s.Reps)
			out[i].SetCount++
			out[i].Volume += vol
			out[i].MaxWeight = math.Max(out[i].MaxWeight, s.Weight)
			best[i] = math.Max(best[i], EstimateOneRepMax(s.Weight, s.Reps))
			total += vol
		}
		for i, v := range best {
			if v > 0 {
				series[i] = append(series[i], v)
			}
		}
	}
	for i := range out {
		if len(series[i]) >= 2 {
			out[i].ProgressRate = pctChange(series[i][0], series[i][len(series[i])-1])
		}
		share := safeDiv(out[i].Volume, total)
		out[i].Effectiveness = round2(clamp(share*60+clamp(out[i].ProgressRate, 0, 40), 0, 100))
		out[i].Volume = round2(out[i].Volume)
		out[i].ProgressRate = round2(out[i].ProgressRate)
	}
	return out
}

func qualityOf(records []workout.Record, sessionVolumes []float64, op OverallProgress, volatility, risk float64) QualityMetrics {
	reps := make([]float64, len(records))
	for i, r := range records {
		reps[i] = r.Load().AvgReps()
	}

	var load float64
	switch op.Rate {
	case RateExceptional:
		load = 100
	case RateFast:
		load = 80
	case RateModerate:
		load = 60
	default:
		load = 40
		if op.Percentage < 0 {
			load = 20
		}
	}

	return QualityMetrics{
		FormConsistency:    round2(clamp(100-coefVar(reps)*100, 0, 100)),
		LoadProgression:    load,
		VolumeOptimization: round2(clamp(100-coefVar(sessionVolumes)*100, 0, 100)),
		RecoveryIndicators: round2(clamp(100-2*volatility-0.3*risk, 0, 100)),
	}
}
