package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(level)
	l.SetOutput(&buf)
	l.EnableColors(false)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" Warning "))
	assert.Equal(t, ERROR, ParseLevel("ERROR"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
	assert.Equal(t, "WARN", WARN.String())
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger("warn")

	l.Debug("hidden")
	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	l.Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN ] logger_test.go:")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[ERROR]")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestPrefixFormat(t *testing.T) {
	l, buf := newBufferLogger("debug")
	l.Debug("frame", 3)

	assert.True(t, strings.HasPrefix(buf.String(), "2024/05/01 12:00:00 [DEBUG] logger_test.go:"))
	assert.Contains(t, buf.String(), "frame3")
}

func TestSetLevel(t *testing.T) {
	l, buf := newBufferLogger("error")
	l.Info("dropped")
	l.SetLevel("info")
	l.Info("kept")

	assert.Equal(t, INFO, l.Level())
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")

	l, err := NewFileLogger("info", path)
	require.NoError(t, err)
	l.Info("written to disk")
	l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to disk")
	assert.NotContains(t, string(data), "\033[")
}

func TestNoColorDisablesColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, NewLogger("info").useColors)
}
