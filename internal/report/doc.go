// Package report renders the table a mode produced.
//
// This package contains writers for different output formats:
//   - PlainWriter: one line per row, cells separated by spaces
//   - PrettyWriter: a bordered console table (go-pretty)
//   - CSVWriter: a timestamped CSV file in the results directory
//   - MarkdownWriter: a Markdown table (nao1215/markdown)
//   - JSONWriter: the table as a JSON document
//
// Every writer emits the header before the data rows.
package report
