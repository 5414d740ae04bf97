package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/ticketsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	appDir := t.TempDir()
	logger := New(appDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("reconcile", "snapshot fetched")

	content, err := os.ReadFile(domain.LogPath(appDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[reconcile]")
	assert.Contains(t, string(content), "snapshot fetched")
}

func TestLogger_LevelFiltering(t *testing.T) {
	appDir := t.TempDir()
	logger := New(appDir, slog.LevelWarn) // Only warn and above
	defer func() { _ = logger.Close() }()

	logger.Debug("extract", "debug message")
	logger.Info("extract", "info message")
	logger.Warn("extract", "warn message")
	logger.Error("extract", "error message")

	content, err := os.ReadFile(domain.LogPath(appDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "warn message")
	assert.Contains(t, string(content), "error message")
}

func TestLogger_DisabledWhenEmptyAppDir(t *testing.T) {
	logger := New("", slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Should not panic or create files
	logger.Info("extract", "test message")
	logger.Debug("extract", "debug message")
	logger.Warn("extract", "warn message")
	logger.Error("extract", "error message")
}

func TestLogger_LogFormat(t *testing.T) {
	appDir := t.TempDir()
	logger := New(appDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()
	logger.now = func() time.Time {
		return time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)
	}

	logger.Info("create", `ticket created: "Add caching layer"`)

	content, err := os.ReadFile(domain.LogPath(appDir))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, `[2025-12-30 09:32:51] [INFO] [create] ticket created: "Add caching layer"`, lines[0])
}

func TestLogger_Mirror(t *testing.T) {
	var buf bytes.Buffer
	mirror := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger := New("", slog.LevelDebug).WithMirror(mirror)
	logger.Info("reconcile", "quiet")
	logger.Warn("reconcile", "parent lookup failed")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "parent lookup failed")
	assert.Contains(t, out, "category=reconcile")
}

func TestLogger_CloseAndReopen(t *testing.T) {
	appDir := t.TempDir()
	logger := New(appDir, slog.LevelInfo)

	logger.Info("extract", "first")
	require.NoError(t, logger.Close())
	assert.FileExists(t, domain.LogPath(appDir))

	// Logging after Close reopens the file in append mode
	logger.Info("extract", "second")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(domain.LogPath(appDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first")
	assert.Contains(t, string(content), "second")
}

func TestLogger_CreateLogsDir(t *testing.T) {
	appDir := t.TempDir()
	logsDir := filepath.Join(appDir, "logs")

	_, err := os.Stat(logsDir)
	assert.True(t, os.IsNotExist(err))

	logger := New(appDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()
	logger.Info("extract", "test message")

	stat, err := os.Stat(logsDir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}
