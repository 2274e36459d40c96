// Package analyzer is the workout analytics engine: per-category metrics,
// muscle balance scoring and whole-history strength progress. Every function
// is pure; inputs are never modified and no I/O is performed.
package analyzer

import "time"

// Trend labels.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Level labels shared by strength level and development stage.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	StageNeglected    = "neglected"
)

// Priority labels.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Imbalance severity and direction labels.
const (
	SeverityBalanced = "balanced"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"

	DirectionTooMuch   = "too_much"
	DirectionTooLittle = "too_little"
)

// CategoryMetrics aggregates the records credited to one muscle group.
type CategoryMetrics struct {
	Category string `json:"category"`

	// WorkoutCount is the number of contributing records.
	WorkoutCount int `json:"workout_count"`

	// SessionCount is the number of distinct training days.
	SessionCount int `json:"session_count"`

	// TotalVolume is the attributed volume (kg) after effort splitting.
	TotalVolume float64 `json:"total_volume"`

	AvgWeight float64 `json:"avg_weight"`
	MaxWeight float64 `json:"max_weight"`
	MinWeight float64 `json:"min_weight"`
	AvgSets   float64 `json:"avg_sets"`
	AvgReps   float64 `json:"avg_reps"`
	TotalSets int     `json:"total_sets"`
	TotalReps int     `json:"total_reps"`

	// WeeklyFrequency is contributing records per week over their date span.
	WeeklyFrequency float64 `json:"weekly_frequency"`
	// SessionsPerWeek counts distinct training days instead of records.
	SessionsPerWeek float64 `json:"sessions_per_week"`

	EstimatedOneRM    float64 `json:"estimated_one_rm"`
	WeightProgression float64 `json:"weight_progression"` // % first -> last record
	VolumeProgression float64 `json:"volume_progression"` // % first -> last record

	IntensityScore   float64 `json:"intensity_score"`   // 0-100
	EfficiencyScore  float64 `json:"efficiency_score"`  // 0-100
	ConsistencyScore float64 `json:"consistency_score"` // 0-100

	DaysSinceLastWorkout int    `json:"days_since_last_workout"`
	Trend                string `json:"trend"`
	StrengthLevel        string `json:"strength_level"`

	// MissedProgrammedDays lists assigned days on which the category was never trained.
	MissedProgrammedDays []string `json:"missed_programmed_days,omitempty"`

	OneRMSeries []Point `json:"one_rm_series,omitempty"`

	// SessionVolumes is the attributed volume per training day.
	SessionVolumes []Point `json:"session_volumes,omitempty"`
}

// CategoryAnalysis is the result of AnalyzeCategories.
type CategoryAnalysis struct {
	AsOf time.Time `json:"as_of"`

	// Metrics holds the known categories in table order, then Uncategorized
	// when any record could not be resolved.
	Metrics []CategoryMetrics `json:"metrics"`

	// TotalVolume sums the known categories only.
	TotalVolume float64 `json:"total_volume"`

	UnresolvedRecords int `json:"unresolved_records"`
	TotalRecords      int `json:"total_records"`
}

// Find returns the metrics for category, or nil.
func (a CategoryAnalysis) Find(category string) *CategoryMetrics {
	for i := range a.Metrics {
		if a.Metrics[i].Category == category {
			return &a.Metrics[i]
		}
	}
	return nil
}

// BalanceHistory describes how a category's training volume is distributed over time.
type BalanceHistory struct {
	Trend       string  `json:"trend"`
	Consistency float64 `json:"consistency"` // 0-100
	Volatility  float64 `json:"volatility"`  // 0-100

	// Points is the category's share (%) of weekly volume, one per training week.
	Points []Point `json:"points,omitempty"`
}

// MuscleBalance scores one category against the ideal distribution and its antagonist.
type MuscleBalance struct {
	Category         string  `json:"category"`
	Volume           float64 `json:"volume"`
	ActualPercentage float64 `json:"actual_percentage"`
	IdealPercentage  float64 `json:"ideal_percentage"`

	// Deviation is actual minus ideal, in percentage points.
	Deviation  float64 `json:"deviation"`
	IsBalanced bool    `json:"is_balanced"`

	Antagonist         string  `json:"antagonist,omitempty"`
	AntagonistVolume   float64 `json:"antagonist_volume"`
	AntagonistRatio    float64 `json:"antagonist_ratio"` // 0 when the antagonist has no volume
	IdealRatio         float64 `json:"ideal_ratio"`
	// RatioDeviation is the % gap from IdealRatio, pinned to +100 when only
	// this side was trained.
	RatioDeviation float64 `json:"ratio_deviation"`
	ImbalanceSeverity  string  `json:"imbalance_severity"`
	ImbalanceDirection string  `json:"imbalance_direction,omitempty"`
	HasImbalance       bool    `json:"has_imbalance"`

	SymmetryScore    float64        `json:"symmetry_score"` // 0-100
	StrengthIndex    float64        `json:"strength_index"` // 0-100
	ProgressTrend    string         `json:"progress_trend"`
	WeeklyFrequency  float64        `json:"weekly_frequency"`
	PriorityLevel    string         `json:"priority_level"`
	DevelopmentStage string         `json:"development_stage"`
	BalanceHistory   BalanceHistory `json:"balance_history"`

	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
}

// OverallProgress compares the start and end of the observed period.
type OverallProgress struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Absolute   float64 `json:"absolute"`
	Percentage float64 `json:"percentage"`
	WeeklyRate float64 `json:"weekly_rate"` // % per week
	Rate       string  `json:"rate"`        // slow|moderate|fast|exceptional
}

// ConsistencyMetrics describe the shape of session-to-session change.
type ConsistencyMetrics struct {
	ProgressionConsistency float64 `json:"progression_consistency"`
	PlateauPeriods         int     `json:"plateau_periods"`
	BreakthroughCount      int     `json:"breakthrough_count"`
	VolatilityIndex        float64 `json:"volatility_index"`
}

// Predictions extrapolate the recent trend.
type Predictions struct {
	FourWeekPR   float64 `json:"four_week_pr"`
	TwelveWeekPR float64 `json:"twelve_week_pr"`
	PlateauRisk  float64 `json:"plateau_risk"` // 0-100

	// TimeToNextPR is in sessions; 0 when the near-term projection does not
	// exceed the current max.
	TimeToNextPR int     `json:"time_to_next_pr"`
	Confidence   float64 `json:"confidence"` // 0-100
}

// StrengthCurve places aggregate 1RM against aggregate standards.
type StrengthCurve struct {
	Phase     string  `json:"phase"` // novice|intermediate|advanced|elite
	GainRate  float64 `json:"gain_rate"`
	Potential float64 `json:"potential"` // % headroom to elite
}

// TrainingRecommendations steer the next block of training.
type TrainingRecommendations struct {
	IntensityZone       string  `json:"intensity_zone"` // volume|intensity|peaking|deload
	SuggestedRPE        float64 `json:"suggested_rpe"`
	VolumeAdjustment    float64 `json:"volume_adjustment"`    // signed %
	FrequencyAdjustment int     `json:"frequency_adjustment"` // sessions/week
	PeriodizationTip    string  `json:"periodization_tip"`
}

// RepRange summarizes sets falling in one rep bucket.
type RepRange struct {
	Label         string  `json:"label"`
	MinReps       int     `json:"min_reps"`
	MaxReps       int     `json:"max_reps"` // 0 means open-ended
	SetCount      int     `json:"set_count"`
	Volume        float64 `json:"volume"`
	MaxWeight     float64 `json:"max_weight"`
	ProgressRate  float64 `json:"progress_rate"` // % first -> last 1RM in bucket
	Effectiveness float64 `json:"effectiveness"` // 0-100
}

// QualityMetrics are 0-100 training quality indicators.
type QualityMetrics struct {
	FormConsistency    float64 `json:"form_consistency"`
	LoadProgression    float64 `json:"load_progression"`
	VolumeOptimization float64 `json:"volume_optimization"`
	RecoveryIndicators float64 `json:"recovery_indicators"`
}

// StrengthProgressAnalysis covers the whole filtered history.
type StrengthProgressAnalysis struct {
	CurrentMax   float64   `json:"current_max"`
	RecordCount  int       `json:"record_count"`
	SessionCount int       `json:"session_count"`
	FirstSession time.Time `json:"first_session"`
	LastSession  time.Time `json:"last_session"`

	OverallProgress OverallProgress         `json:"overall_progress"`
	Consistency     ConsistencyMetrics      `json:"consistency"`
	Predictions     Predictions             `json:"predictions"`
	StrengthCurve   StrengthCurve           `json:"strength_curve"`
	Training        TrainingRecommendations `json:"training"`
	RepRanges       []RepRange              `json:"rep_ranges"`
	Quality         QualityMetrics          `json:"quality"`
}
