package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nao1215/docscan/internal/model"
)

// PrettyWriter renders a bordered table for the terminal.
// Header cells are printed as given, not upper-cased.
type PrettyWriter struct {
	baseWriter
}

// NewPrettyWriter creates a PrettyWriter.
func NewPrettyWriter(output io.Writer) *PrettyWriter {
	return &PrettyWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the table.
func (w *PrettyWriter) Write(t *model.Table) (int, error) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	tw.AppendHeader(toRow(t.Header))
	for _, r := range t.Rows {
		tw.AppendRow(toRow(r))
	}

	return io.WriteString(w.output, tw.Render()+"\n")
}

func toRow(r model.Row) table.Row {
	row := make(table.Row, len(r))
	for i, cell := range r {
		row[i] = cell
	}
	return row
}
