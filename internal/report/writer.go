package report

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/docscan/internal/config"
	"github.com/nao1215/docscan/internal/model"
)

// Writer defines the interface for result output.
// It returns the number of bytes written and any error encountered.
type Writer interface {
	Write(table *model.Table) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the table to all configured Writers.
func (m *MultiWriter) Write(table *model.Table) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(table)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// New returns the writer for an output mode. Console formats go to stdout;
// the file format goes to resultsDir.
func New(output string, stdout io.Writer, resultsDir string, logger *slog.Logger) (Writer, error) {
	switch output {
	case config.OutputPlain:
		return NewPlainWriter(stdout), nil
	case config.OutputPretty:
		return NewPrettyWriter(stdout), nil
	case config.OutputFile:
		return NewCSVWriter(resultsDir, WithCSVLogger(logger)), nil
	case config.OutputMarkdown:
		return NewMarkdownWriter(stdout), nil
	case config.OutputJSON:
		return NewJSONWriter(stdout, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidOutput, output)
	}
}

// ResultFileName returns `<mode>_<YYYY-mm-dd_HH-MM-SS>.csv` for t.
func ResultFileName(mode string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", mode, t.Format("2006-01-02_15-04-05"))
}

// resultPath joins dir and the result file name.
func resultPath(dir, mode string, t time.Time) string {
	return filepath.Join(dir, ResultFileName(mode, t))
}
