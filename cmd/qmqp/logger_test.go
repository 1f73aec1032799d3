package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	logger := slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
	return logger
}

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		verbose int
		enabled slog.Level
		hidden  slog.Level
	}{
		{0, slog.LevelWarn, slog.LevelInfo},
		{1, slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		logger, closeLog, err := setupLogger(tt.verbose, "", os.Stderr)
		require.NoError(t, err)
		closeLog()
		require.True(t, logger.Enabled(t.Context(), tt.enabled))
		require.False(t, logger.Enabled(t.Context(), tt.hidden))
	}

	logger, closeLog, err := setupLogger(3, "", os.Stderr)
	require.NoError(t, err)
	closeLog()
	require.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qmqp.log")
	logger, closeLog, err := setupLogger(0, path, os.Stderr)
	require.NoError(t, err)

	logger.Warn("disk is cold")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "disk is cold")
}
