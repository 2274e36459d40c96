package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/watcher"
)

// minWatchInterval bounds how often the database is re-analyzed.
const minWatchInterval = 10 * time.Second

var (
	watchInterval time.Duration
	watchQuiet    bool
	watchNotify   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Alert on new sessions and balance shifts",
	Long: `Re-analyze the workout database periodically and alert when something
notable changes: a session is logged, a new estimated max is reached, a muscle
group becomes neglected or critical, plateau risk climbs, or an imbalance
turns severe. Only one watcher may run per database.

Examples:
  liftwatch watch                    # run in foreground (ctrl-c to stop)
  liftwatch watch --interval 5m      # check every 5 minutes
  liftwatch watch --notify --quiet   # desktop notifications only`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Check interval, e.g. 5m or 1h (default: watch.interval from config)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications")
	rootCmd.AddCommand(watchCmd)
}

// lockPath returns the single-instance lock file guarding the database.
func lockPath() string {
	return cfg.DBPath + ".watch.lock"
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval := watchInterval
	if interval == 0 {
		interval = cfg.Watch.Interval
	}
	if interval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}

	if err := os.MkdirAll(filepath.Dir(lockPath()), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	lock := flock.New(lockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring watch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another watcher is already running for %s", cfg.DBPath)
	}
	defer func() { _ = lock.Unlock() }()

	opts, err := reportOptions()
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	out := cmd.OutOrStdout()
	alertFn := func(a watcher.Alert) {
		logrus.WithFields(logrus.Fields{"level": a.Level, "title": a.Title}).Info(a.Message)
		if watchNotify {
			_ = watcher.Notify(a)
		}
		if !watchQuiet {
			printAlert(out, a)
		}
	}

	w := watcher.New(db, interval, opts, alertFn)
	if !watchQuiet {
		fmt.Fprintf(out, "liftwatch watching %s (checking every %s)\n", cfg.DBPath, interval)
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Fprintln(out, "\nStopped.")
		}
		return nil
	}
	return err
}

// printAlert formats and prints an alert to the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	fmt.Fprintf(w, "[%s] %s %s\n", a.Time.Format("15:04:05"), alertIcon(a.Level), output.StyleBold.Render(a.Title))
	if a.Message != "" {
		fmt.Fprintf(w, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case watcher.LevelCritical:
		return output.StyleError.Render("●")
	case watcher.LevelWarning:
		return output.StyleWarning.Render("▲")
	case watcher.LevelInfo:
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}
