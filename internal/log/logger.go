package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New creates the application logger.
//
// Terminal output goes to stderr through a tint handler (human-readable,
// colored). When logFile is non-empty, records are additionally appended to
// that file in plain text format. The returned closer owns the log file and
// must be closed when the process exits; it is a no-op closer when file
// logging is disabled.
func New(verbose bool, logFile string) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	terminal := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})

	if logFile == "" {
		return slog.New(terminal), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) //nolint:gosec // User-chosen log path is intentional
	if err != nil {
		return nil, nil, err
	}

	file := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})

	return slog.New(NewTeeHandler(terminal, file)), f, nil
}
