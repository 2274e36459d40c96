package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
)

// Config is the top-level liftwatch configuration.
type Config struct {
	DataDir    string   `mapstructure:"data_dir"`
	DBPath     string   `mapstructure:"db_path"`
	TablesFile string   `mapstructure:"tables_file"`
	Analysis   Analysis `mapstructure:"analysis"`
	Output     Output   `mapstructure:"output"`
	Log        Log      `mapstructure:"log"`
	Watch      Watch    `mapstructure:"watch"`
}

// Analysis holds the engine thresholds.
type Analysis struct {
	RecommendationLimit int     `mapstructure:"recommendation_limit"`
	TrendThresholdPct   float64 `mapstructure:"trend_threshold_pct"`
	Rates               Rates   `mapstructure:"rates"`
	Plateau             Plateau `mapstructure:"plateau"`
}

// Rates are the weekly %-gain cutpoints for progress rate labels.
type Rates struct {
	Exceptional float64 `mapstructure:"exceptional"`
	Fast        float64 `mapstructure:"fast"`
	Moderate    float64 `mapstructure:"moderate"`
}

// Plateau controls plateau and breakthrough detection.
type Plateau struct {
	TolerancePct    float64 `mapstructure:"tolerance_pct"`
	MinSessions     int     `mapstructure:"min_sessions"`
	BreakthroughPct float64 `mapstructure:"breakthrough_pct"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Log defines logging preferences. An empty File logs to stderr.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// Watch configures the watch daemon.
type Watch struct {
	Interval time.Duration `mapstructure:"interval"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed with LIFTWATCH_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("tables_file", "")
	v.SetDefault("analysis.recommendation_limit", DefaultAnalysis.RecommendationLimit)
	v.SetDefault("analysis.trend_threshold_pct", DefaultAnalysis.TrendThresholdPct)
	v.SetDefault("analysis.rates.exceptional", DefaultAnalysis.Rates.Exceptional)
	v.SetDefault("analysis.rates.fast", DefaultAnalysis.Rates.Fast)
	v.SetDefault("analysis.rates.moderate", DefaultAnalysis.Rates.Moderate)
	v.SetDefault("analysis.plateau.tolerance_pct", DefaultAnalysis.Plateau.TolerancePct)
	v.SetDefault("analysis.plateau.min_sessions", DefaultAnalysis.Plateau.MinSessions)
	v.SetDefault("analysis.plateau.breakthrough_pct", DefaultAnalysis.Plateau.BreakthroughPct)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.file", DefaultLog.File)
	v.SetDefault("log.json", DefaultLog.JSON)
	v.SetDefault("watch.interval", DefaultWatchInterval)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandPath(cfg.DataDir)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, DefaultDBName)
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.TablesFile = expandPath(cfg.TablesFile)
	cfg.Log.File = expandPath(cfg.Log.File)

	return &cfg, nil
}

// Thresholds converts the analysis section into engine thresholds.
func (c *Config) Thresholds() analyzer.Thresholds {
	a := c.Analysis
	return analyzer.Thresholds{
		TrendPct: a.TrendThresholdPct,
		Rates: analyzer.RateCutpoints{
			Exceptional: a.Rates.Exceptional,
			Fast:        a.Rates.Fast,
			Moderate:    a.Rates.Moderate,
		},
		Plateau: analyzer.PlateauRules{
			TolerancePct:    a.Plateau.TolerancePct,
			MinSessions:     a.Plateau.MinSessions,
			BreakthroughPct: a.Plateau.BreakthroughPct,
		},
	}
}

// AnalyzerOptions builds engine options, loading the reference tables from
// TablesFile when one is configured.
func (c *Config) AnalyzerOptions() (analyzer.Options, error) {
	opts := analyzer.Options{Thresholds: c.Thresholds()}
	if c.TablesFile == "" {
		opts.Tables = analyzer.DefaultTables()
		return opts, nil
	}
	t, err := analyzer.LoadTables(c.TablesFile)
	if err != nil {
		return opts, err
	}
	opts.Tables = t
	return opts, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
