package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nao1215/docscan/internal/model"
)

// CSVWriter saves the table as a CSV file named after the mode and the
// current time in its directory.
type CSVWriter struct {
	dir      string
	now      func() time.Time
	logger   *slog.Logger
	create   func(path string) (io.WriteCloser, error)
	lastPath string
}

func createResultFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // path is built from the results directory
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithCSVLogger sets the logger used to report the saved file.
func WithCSVLogger(logger *slog.Logger) CSVWriterOption {
	return func(w *CSVWriter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock sets the function that supplies the file timestamp.
func WithClock(now func() time.Time) CSVWriterOption {
	return func(w *CSVWriter) {
		w.now = now
	}
}

// NewCSVWriter creates a CSVWriter that saves files into dir.
func NewCSVWriter(dir string, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		dir:    dir,
		now:    time.Now,
		logger: slog.Default(),
		create: createResultFile,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the file written by the last Write call.
func (w *CSVWriter) Path() string {
	return w.lastPath
}

// Write creates the results directory if needed and writes the file.
// The returned count is the size of the file. The file only counts as saved
// once it has been closed without error.
func (w *CSVWriter) Write(table *model.Table) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(table.All()); err != nil {
		return 0, fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create results directory: %w", err)
	}

	path := resultPath(w.dir, table.Mode, w.now())
	f, err := w.create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create result file: %w", err)
	}

	n, err := f.Write(buf.Bytes())
	if err != nil {
		_ = f.Close() //nolint:errcheck // the write error is reported
		return n, fmt.Errorf("failed to write result file: %w", err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("failed to save result file: %w", err)
	}

	w.lastPath = path
	w.logger.Info("results file saved", "path", path)

	return n, nil
}
