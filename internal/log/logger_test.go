package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestJSONLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf, "WARN")

	logger.Info("dropped")
	logger.Warn("kept", "movieID", 550)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.EqualValues(t, 550, entry["movieID"])
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)

	logger.Debug("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetupLoggerWithoutFile(t *testing.T) {
	logger, err := SetupLogger(&config.LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
