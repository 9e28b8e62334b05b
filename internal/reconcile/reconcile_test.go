package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/docscan/internal/model"
)

// fakeSource serves statuses keyed by URL. URLs in unavailable fail like an
// unreachable page.
type fakeSource struct {
	statuses    map[string]string
	unavailable map[string]bool
	calls       []string
}

func (f *fakeSource) Status(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.unavailable[url] {
		return "", fmt.Errorf("%w: %s", ErrDetailUnavailable, url)
	}
	status, ok := f.statuses[url]
	if !ok {
		return "", errors.New("unexpected url " + url)
	}
	return status, nil
}

func entries(numbers ...string) []model.ProposalEntry {
	out := make([]model.ProposalEntry, len(numbers))
	for i, n := range numbers {
		out[i] = model.ProposalEntry{Number: n, Href: "pep-" + n + "/"}
	}
	return out
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// TestStatusTable tests code lookups.
func TestStatusTable(t *testing.T) {
	t.Parallel()

	table := DefaultStatusTable()

	tests := []struct {
		code string
		want model.ExpectedStatusSet
	}{
		{"A", model.ExpectedStatusSet{"Active", "Accepted"}},
		{"D", model.ExpectedStatusSet{"Deferred"}},
		{"F", model.ExpectedStatusSet{"Final"}},
		{"P", model.ExpectedStatusSet{"Provisional"}},
		{"R", model.ExpectedStatusSet{"Rejected"}},
		{"S", model.ExpectedStatusSet{"Superseded"}},
		{"W", model.ExpectedStatusSet{"Withdrawn"}},
		{"", model.ExpectedStatusSet{"Draft", "Active"}},
		{"X", model.ExpectedStatusSet{"Draft", "Active"}},
	}

	for _, tt := range tests {
		t.Run("code "+tt.code, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, table.Expected(tt.code)); diff != "" {
				t.Errorf("Expected(%q) mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}

	t.Run("lookups return copies", func(t *testing.T) {
		t.Parallel()

		set := table.Expected("A")
		set[0] = "Mutated"
		if table.Expected("A")[0] != "Active" {
			t.Error("expected table to be immutable")
		}
	})

	t.Run("codes are sorted", func(t *testing.T) {
		t.Parallel()

		want := []string{"A", "D", "F", "P", "R", "S", "W"}
		if diff := cmp.Diff(want, table.Codes()); diff != "" {
			t.Errorf("Codes mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestNewStatusTable tests custom tables.
func TestNewStatusTable(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty set", func(t *testing.T) {
		t.Parallel()

		_, err := NewStatusTable(map[string][]string{"F": {}}, nil)
		if !errors.Is(err, ErrEmptyStatusSet) {
			t.Errorf("expected ErrEmptyStatusSet, got %v", err)
		}
	})

	t.Run("rejects empty fallback", func(t *testing.T) {
		t.Parallel()

		_, err := NewStatusTable(nil, []string{})
		if !errors.Is(err, ErrEmptyStatusSet) {
			t.Errorf("expected ErrEmptyStatusSet, got %v", err)
		}
	})

	t.Run("custom fallback", func(t *testing.T) {
		t.Parallel()

		table, err := NewStatusTable(map[string][]string{"F": {"Final"}}, []string{"Draft"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(model.ExpectedStatusSet{"Draft"}, table.Expected("Z")); diff != "" {
			t.Errorf("fallback mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestReconcile tests pairing, membership and mismatch logging.
func TestReconcile(t *testing.T) {
	t.Parallel()

	const base = "https://peps.python.org/"
	ctx := context.Background()

	t.Run("pairs by position and flags mismatches", func(t *testing.T) {
		t.Parallel()

		logger, buf := bufferLogger()
		src := &fakeSource{statuses: map[string]string{
			base + "pep-1/": "Active",
			base + "pep-2/": "Final",
			base + "pep-3/": "Draft",
		}}
		r := New(DefaultStatusTable(), WithLogger(logger))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}, {Code: "R"}, {Code: ""}})

		records, err := r.Reconcile(ctx, base, expected, entries("1", "2", "3"), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		matches := []bool{true, false, true}
		for i, rec := range records {
			if rec.Match != matches[i] {
				t.Errorf("record %d: expected match=%v, got %v", i, matches[i], rec.Match)
			}
			if rec.Match != rec.Expected.Contains(rec.Observed) {
				t.Errorf("record %d: match flag disagrees with membership", i)
			}
		}

		logs := buf.String()
		if strings.Count(logs, "mismatched statuses") != 1 {
			t.Errorf("expected exactly one mismatch log, got:\n%s", logs)
		}
		if !strings.Contains(logs, base+"pep-2/") || !strings.Contains(logs, "(Rejected)") {
			t.Errorf("expected mismatch log to name the link and expected set, got:\n%s", logs)
		}
	})

	t.Run("fewer codes than links fails before fetching", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{}
		r := New(DefaultStatusTable(), WithLogger(slog.New(slog.DiscardHandler)))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}})

		_, err := r.Reconcile(ctx, base, expected, entries("1", "2"), src)
		if !errors.Is(err, ErrPairingMismatch) {
			t.Fatalf("expected ErrPairingMismatch, got %v", err)
		}
		if len(src.calls) != 0 {
			t.Errorf("expected no fetches, got %v", src.calls)
		}
	})

	t.Run("surplus codes are ignored with a warning", func(t *testing.T) {
		t.Parallel()

		logger, buf := bufferLogger()
		src := &fakeSource{statuses: map[string]string{base + "pep-8/": "Active"}}
		r := New(DefaultStatusTable(), WithLogger(logger))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}, {Code: "F"}})

		records, err := r.Reconcile(ctx, base, expected, entries("8"), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
		if !strings.Contains(buf.String(), "level=WARN") {
			t.Errorf("expected a warning, got:\n%s", buf.String())
		}
	})

	t.Run("abort policy fails on unavailable page", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{
			statuses:    map[string]string{base + "pep-1/": "Active"},
			unavailable: map[string]bool{base + "pep-2/": true},
		}
		r := New(DefaultStatusTable(), WithLogger(slog.New(slog.DiscardHandler)))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}, {Code: "F"}})

		_, err := r.Reconcile(ctx, base, expected, entries("1", "2"), src)
		if !errors.Is(err, ErrDetailUnavailable) {
			t.Errorf("expected ErrDetailUnavailable, got %v", err)
		}
	})

	t.Run("skip policy records Unknown", func(t *testing.T) {
		t.Parallel()

		logger, buf := bufferLogger()
		src := &fakeSource{
			statuses:    map[string]string{base + "pep-1/": "Active", base + "pep-3/": "Final"},
			unavailable: map[string]bool{base + "pep-2/": true},
		}
		r := New(DefaultStatusTable(), WithLogger(logger), WithPolicy(PolicySkip))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}, {Code: "F"}, {Code: "F"}})

		records, err := r.Reconcile(ctx, base, expected, entries("1", "2", "3"), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}

		skipped := records[1]
		if !skipped.Unknown || skipped.Match || skipped.Observed != UnknownStatus {
			t.Errorf("unexpected skipped record %+v", skipped)
		}
		if strings.Contains(buf.String(), "mismatched statuses") {
			t.Errorf("expected no mismatch log for skipped page, got:\n%s", buf.String())
		}

		table := Aggregate("pep", records)
		last := table.Rows[len(table.Rows)-1]
		if last[0] != "Total" || last[1] != "3" {
			t.Errorf("expected Total 3, got %v", last)
		}
	})

	t.Run("other errors are fatal under skip", func(t *testing.T) {
		t.Parallel()

		src := &fakeSource{statuses: map[string]string{}}
		r := New(DefaultStatusTable(), WithLogger(slog.New(slog.DiscardHandler)), WithPolicy(PolicySkip))
		expected := r.ExpectedSets([]model.StatusCode{{Code: "A"}})

		if _, err := r.Reconcile(ctx, base, expected, entries("1"), src); err == nil {
			t.Error("expected error")
		}
	})
}

// TestAggregate tests first-seen ordering and the Total row.
func TestAggregate(t *testing.T) {
	t.Parallel()

	records := []model.ReconciliationRecord{
		{Observed: "Final"},
		{Observed: "Active"},
		{Observed: "Final"},
		{Observed: "Withdrawn"},
		{Observed: "Active"},
		{Observed: "Final"},
	}

	table := Aggregate("pep", records)

	want := &model.Table{
		Mode:   "pep",
		Header: model.Row{"Status", "Count"},
		Rows: []model.Row{
			{"Final", "3"},
			{"Active", "2"},
			{"Withdrawn", "1"},
			{"Total", "6"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}

	t.Run("empty input yields only Total", func(t *testing.T) {
		t.Parallel()

		table := Aggregate("pep", nil)
		if diff := cmp.Diff([]model.Row{{"Total", "0"}}, table.Rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})
}
