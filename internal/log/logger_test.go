package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestNew tests the process logger.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("writes to console and file", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		file := filepath.Join(t.TempDir(), "logs", "docscan.log")

		logger, err := New(Options{
			Console:    &console,
			NoColor:    true,
			File:       file,
			MaxSizeMB:  1,
			MaxBackups: 5,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		logger.Info("parser started", "mode", "pep")
		logger.Debug("hidden at info level")
		if err := logger.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}

		for name, out := range map[string]string{"console": console.String(), "file": string(data)} {
			if !strings.Contains(out, "parser started") {
				t.Errorf("%s: expected message, got: %s", name, out)
			}
			if !strings.Contains(out, logger.RunID) {
				t.Errorf("%s: expected run id, got: %s", name, out)
			}
			if strings.Contains(out, "hidden at info level") {
				t.Errorf("%s: expected debug record to be dropped", name)
			}
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var console bytes.Buffer
		logger, err := New(Options{Console: &console, NoColor: true, Verbose: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer logger.Close()

		logger.Debug("fetching")
		if !strings.Contains(console.String(), "fetching") {
			t.Errorf("expected debug record, got: %s", console.String())
		}
	})

	t.Run("run id is a uuid", func(t *testing.T) {
		t.Parallel()

		logger, err := New(Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uuid.Parse(logger.RunID); err != nil {
			t.Errorf("expected uuid, got %q", logger.RunID)
		}
		if err := logger.Close(); err != nil {
			t.Errorf("expected no error closing logger without file, got %v", err)
		}
	})
}

// failingHandler always fails.
type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

// TestFanoutHandler tests distribution to several handlers.
func TestFanoutHandler(t *testing.T) {
	t.Parallel()

	t.Run("respects each handler's level", func(t *testing.T) {
		t.Parallel()

		var info, warn bytes.Buffer
		h := NewFanoutHandler(
			slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
			slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
		)
		logger := slog.New(h).With("run", "r1").WithGroup("g")

		logger.Info("status mismatch")
		logger.Warn("page unavailable")

		if !strings.Contains(info.String(), "status mismatch") || !strings.Contains(info.String(), "page unavailable") {
			t.Errorf("expected both records in info handler, got: %s", info.String())
		}
		if strings.Contains(warn.String(), "status mismatch") {
			t.Errorf("expected info record to be dropped by warn handler, got: %s", warn.String())
		}
		if !strings.Contains(warn.String(), "run=r1") {
			t.Errorf("expected attrs to be propagated, got: %s", warn.String())
		}
	})

	t.Run("disabled when no handler accepts the level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewFanoutHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
		if h.Enabled(context.Background(), slog.LevelInfo) {
			t.Error("expected info to be disabled")
		}
	})

	t.Run("joins handler errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h := NewFanoutHandler(failingHandler{}, slog.NewTextHandler(&buf, nil))
		err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0))
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("expected joined error, got %v", err)
		}
		if !strings.Contains(buf.String(), "msg") {
			t.Error("expected healthy handler to still write")
		}
	})
}

// TestDiscard tests the discarding logger.
func TestDiscard(t *testing.T) {
	t.Parallel()

	if Discard().Enabled(context.Background(), slog.LevelError) {
		t.Error("expected discard logger to be disabled")
	}
}
