//go:build windows

package app

import "os"

// shutdownSignals are the OS signals that stop the watcher.
var shutdownSignals = []os.Signal{os.Interrupt}
