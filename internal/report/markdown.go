package report

import (
	"io"

	"github.com/nao1215/markdown"

	"github.com/nao1215/docscan/internal/model"
)

// MarkdownWriter outputs the table as a GitHub-flavored Markdown table
// under a heading naming the mode.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the table in Markdown format.
func (w *MarkdownWriter) Write(table *model.Table) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H2("docscan: " + table.Mode)
	md.PlainText("")

	rows := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = []string(r)
	}
	md.Table(markdown.TableSet{
		Header: []string(table.Header),
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
