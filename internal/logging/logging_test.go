package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{" warn ", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, GetLevel(tt.in))
		})
	}
}

func TestSetup_WritesJSONToRotatingFile(t *testing.T) {
	l := logrus.New()
	base := filepath.Join(t.TempDir(), "liftwatch")
	closer := setup(l, Params{Level: "debug", File: base, JSON: true})

	l.WithField("category", "Pecho").Debug("analyzed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(base + ".log")
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"category":"Pecho"`)
	assert.Contains(t, line, `"msg":"analyzed"`)
}

func TestSetup_LevelFiltersFile(t *testing.T) {
	l := logrus.New()
	path := filepath.Join(t.TempDir(), "quiet.log")
	closer := setup(l, Params{Level: "warn", File: path})

	l.Info("hidden")
	l.Warn("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestSetup_StderrWithoutFile(t *testing.T) {
	l := logrus.New()
	closer := setup(l, Params{})
	assert.Equal(t, os.Stderr, l.Out)
	assert.NoError(t, closer.Close())
}
