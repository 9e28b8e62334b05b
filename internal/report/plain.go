package report

import (
	"io"
	"strings"

	"github.com/nao1215/docscan/internal/model"
)

// PlainWriter prints every row, header first, with cells separated by a space.
type PlainWriter struct {
	baseWriter
}

// NewPlainWriter creates a PlainWriter.
func NewPlainWriter(output io.Writer) *PlainWriter {
	return &PlainWriter{baseWriter: newBaseWriter(output)}
}

// Write prints the table.
func (w *PlainWriter) Write(table *model.Table) (int, error) {
	var sb strings.Builder
	for _, row := range table.All() {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}
	return w.output.Write([]byte(sb.String()))
}
