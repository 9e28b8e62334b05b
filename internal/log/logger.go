package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	// Console receives human-oriented colored output. Nil disables it.
	Console io.Writer

	// NoColor disables ANSI colors on the console.
	NoColor bool

	// File is the path of the rotating log file. Empty disables it.
	File string

	// MaxSizeMB is the size at which the file rotates.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// Verbose lowers the level from Info to Debug.
	Verbose bool
}

// Logger is the process logger together with the file it writes to.
type Logger struct {
	*slog.Logger

	// RunID identifies this run in every record.
	RunID string

	file *lumberjack.Logger
}

// New builds the logger every docscan component receives. Records go to the
// console through tint and to the rotating file as plain text, both after
// masking sensitive attributes. Each record carries the run ID.
func New(opts Options) (*Logger, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlers := make([]slog.Handler, 0, 2)
	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    opts.NoColor,
		}))
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	}

	runID := uuid.NewString()
	logger := slog.New(NewSecureHandler(NewFanoutHandler(handlers...))).With("run", runID)

	return &Logger{Logger: logger, RunID: runID, file: file}, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
