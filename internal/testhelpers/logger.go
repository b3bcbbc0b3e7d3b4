package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/cyclefit/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink, such as the one returned by NewWriter.
func NewLogger(logSink io.Writer) *slog.Logger {
	return logging.NewLogger(logSink, slog.LevelDebug)
}

// NewTestLogger creates a logger writing to t.Log.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}
