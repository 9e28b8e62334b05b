package model

import (
	"errors"
	"fmt"
)

// Row is one output record. Every row of a table has the same width.
type Row []string

// Table is the canonical output of a report mode: a header row followed by
// data rows in discovery order.
type Table struct {
	// Mode is the name of the mode that produced the table.
	Mode string `json:"mode"`

	// Header is the fixed header tuple of the mode.
	Header Row `json:"header"`

	// Rows are the data rows. The header is not part of Rows.
	Rows []Row `json:"rows"`
}

// ErrRowWidth is returned when a row does not match the header width.
var ErrRowWidth = errors.New("row width does not match header")

// NewTable creates an empty table with the given header.
func NewTable(mode string, header ...string) *Table {
	return &Table{
		Mode:   mode,
		Header: Row(header),
		Rows:   make([]Row, 0),
	}
}

// Append adds a data row. It returns ErrRowWidth if the row width differs
// from the header width.
func (t *Table) Append(cells ...string) error {
	if len(cells) != len(t.Header) {
		return fmt.Errorf("%w: want %d cells, got %d", ErrRowWidth, len(t.Header), len(cells))
	}
	t.Rows = append(t.Rows, Row(cells))
	return nil
}

// All returns the header followed by every data row.
func (t *Table) All() []Row {
	all := make([]Row, 0, len(t.Rows)+1)
	all = append(all, t.Header)
	return append(all, t.Rows...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
