// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures Setup.
type Params struct {
	Level string
	// File enables a rotating log file. Empty logs to stderr only.
	File string
	// Mirror also writes to stderr when File is set.
	Mirror bool
	JSON   bool
}

// Setup applies p to the standard logrus logger. The returned closer
// releases the log file, if any.
func Setup(p Params) io.Closer {
	return setup(logrus.StandardLogger(), p)
}

func setup(l *logrus.Logger, p Params) io.Closer {
	if p.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetLevel(GetLevel(p.Level))

	// stdout carries command output, so logs stay on stderr.
	if p.File == "" {
		l.SetOutput(os.Stderr)
		return nopCloser{}
	}

	name := p.File
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		LocalTime:  false,
		Compress:   true,
	}
	if p.Mirror {
		l.SetOutput(io.MultiWriter(os.Stderr, rotating))
	} else {
		l.SetOutput(rotating)
	}
	return rotating
}

// GetLevel parses a level name. Unknown names fall back to info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
