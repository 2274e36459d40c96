// Package config provides configuration loading and defaults for liftwatch.
package config

import "time"

// DefaultConfigDir is the default location for liftwatch configuration.
const DefaultConfigDir = "~/.config/liftwatch"

// DefaultDataDir is where the database and logs live by default.
const DefaultDataDir = "~/.local/share/liftwatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "liftwatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. LIFTWATCH_LOG_LEVEL.
const EnvPrefix = "LIFTWATCH"

// DefaultAnalysis holds the shipped analysis thresholds.
var DefaultAnalysis = Analysis{
	RecommendationLimit: 3,
	TrendThresholdPct:   2,
	Rates: Rates{
		Exceptional: 2.0,
		Fast:        1.0,
		Moderate:    0.25,
	},
	Plateau: Plateau{
		TolerancePct:    2,
		MinSessions:     3,
		BreakthroughPct: 5,
	},
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLog holds the default logging preferences.
var DefaultLog = Log{
	Level: "info",
}

// DefaultWatchInterval is how often `liftwatch watch` re-analyzes.
const DefaultWatchInterval = 30 * time.Minute
