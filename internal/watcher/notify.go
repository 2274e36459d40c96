package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notify sends a desktop notification for the given alert. On macOS it uses
// osascript, on Linux notify-send. Anything else, or a failed command, falls
// back to a line on stderr.
func Notify(alert Alert) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "liftwatch" subtitle %q`, alert.Message, alert.Title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		if _, err := exec.LookPath("notify-send"); err == nil {
			cmd = exec.Command("notify-send", "liftwatch: "+alert.Title, alert.Message)
		}
	}
	if cmd != nil && cmd.Run() == nil {
		return nil
	}
	return notifyFallback(os.Stderr, alert)
}

func notifyFallback(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}
