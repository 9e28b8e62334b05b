package reconcile

import (
	"errors"
	"maps"
	"slices"

	"github.com/nao1215/docscan/internal/model"
)

// ErrEmptyStatusSet is returned when a status table has a code with no statuses.
var ErrEmptyStatusSet = errors.New("expected status set must not be empty")

// StatusTable maps legend codes to expected status sets.
// It is immutable once built; lookups return copies.
type StatusTable struct {
	codes    map[string]model.ExpectedStatusSet
	fallback model.ExpectedStatusSet
}

// DefaultStatusTable returns the legend used by the proposal index.
func DefaultStatusTable() StatusTable {
	t, _ := NewStatusTable(map[string][]string{ //nolint:errcheck // static table is non-empty
		"A": {"Active", "Accepted"},
		"D": {"Deferred"},
		"F": {"Final"},
		"P": {"Provisional"},
		"R": {"Rejected"},
		"S": {"Superseded"},
		"W": {"Withdrawn"},
	}, []string{"Draft", "Active"})
	return t
}

// NewStatusTable builds a table from codes. fallback is the set for empty
// and unknown codes. A nil fallback keeps the default (Draft, Active).
func NewStatusTable(codes map[string][]string, fallback []string) (StatusTable, error) {
	if fallback == nil {
		fallback = []string{"Draft", "Active"}
	}
	if len(fallback) == 0 {
		return StatusTable{}, ErrEmptyStatusSet
	}

	t := StatusTable{
		codes:    make(map[string]model.ExpectedStatusSet, len(codes)),
		fallback: slices.Clone(model.ExpectedStatusSet(fallback)),
	}
	for code, set := range codes {
		if len(set) == 0 {
			return StatusTable{}, ErrEmptyStatusSet
		}
		t.codes[code] = slices.Clone(model.ExpectedStatusSet(set))
	}
	return t, nil
}

// Expected returns the set for code. Empty and unknown codes map to the
// fallback set; this is never an error.
func (t StatusTable) Expected(code string) model.ExpectedStatusSet {
	if set, ok := t.codes[code]; ok {
		return slices.Clone(set)
	}
	return slices.Clone(t.fallback)
}

// Codes returns the known codes in sorted order.
func (t StatusTable) Codes() []string {
	return slices.Sorted(maps.Keys(t.codes))
}
