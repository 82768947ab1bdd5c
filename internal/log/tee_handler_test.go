package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// TestTeeHandler tests record fan-out across handlers with different levels.
func TestTeeHandler(t *testing.T) {
	t.Parallel()

	t.Run("dispatches to every handler", func(t *testing.T) {
		t.Parallel()

		var first, second bytes.Buffer
		tee := NewTeeHandler(
			slog.NewTextHandler(&first, nil),
			slog.NewJSONHandler(&second, nil),
		)

		logger := slog.New(tee)
		logger.Info("crawl started", "forum", 3)

		if !strings.Contains(first.String(), "crawl started") {
			t.Errorf("expected the text handler to receive the record, got %q", first.String())
		}
		if !strings.Contains(second.String(), "crawl started") {
			t.Errorf("expected the JSON handler to receive the record, got %q", second.String())
		}
	})

	t.Run("respects per-handler levels", func(t *testing.T) {
		t.Parallel()

		var debugOut, infoOut bytes.Buffer
		tee := NewTeeHandler(
			slog.NewTextHandler(&debugOut, &slog.HandlerOptions{Level: slog.LevelDebug}),
			slog.NewTextHandler(&infoOut, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)

		if !tee.Enabled(context.Background(), slog.LevelDebug) {
			t.Error("expected debug to be enabled while one handler accepts it")
		}

		logger := slog.New(tee)
		logger.Debug("thread already stored")

		if !strings.Contains(debugOut.String(), "thread already stored") {
			t.Errorf("expected the debug handler to receive the record, got %q", debugOut.String())
		}
		if infoOut.Len() != 0 {
			t.Errorf("expected the info handler to skip the record, got %q", infoOut.String())
		}
	})

	t.Run("carries attributes and groups", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		tee := NewTeeHandler(slog.NewTextHandler(&out, nil))

		logger := slog.New(tee).With("run", "nightly").WithGroup("crawl")
		logger.Info("done", "posts", 12)

		got := out.String()
		if !strings.Contains(got, "run=nightly") {
			t.Errorf("expected attribute in output, got %q", got)
		}
		if !strings.Contains(got, "crawl.posts=12") {
			t.Errorf("expected grouped attribute in output, got %q", got)
		}
	})
}
