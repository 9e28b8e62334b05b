package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/metrics"
	"github.com/nao1215/docscan/internal/model"
)

var (
	// ErrPairingMismatch is returned when the index has fewer legend codes
	// than numbered proposal links, so some links have no expected status.
	ErrPairingMismatch = errors.New("fewer legend codes than proposal links")

	// ErrDetailUnavailable is returned under the abort policy when a
	// proposal's detail page cannot be fetched.
	ErrDetailUnavailable = errors.New("proposal detail page unavailable")
)

// UnknownStatus is recorded for proposals skipped under the skip policy.
const UnknownStatus = "Unknown"

// Policy decides what happens when a detail page cannot be fetched.
type Policy string

const (
	// PolicyAbort fails the reconciliation.
	PolicyAbort Policy = "abort"
	// PolicySkip records the proposal as Unknown and continues.
	PolicySkip Policy = "skip"
)

// StatusSource reads the status a proposal declares on its detail page.
// A page that cannot be fetched is reported with an error wrapping
// ErrDetailUnavailable; any other error is fatal regardless of policy.
type StatusSource interface {
	Status(ctx context.Context, url string) (string, error)
}

// Reconciler pairs legend codes with proposal links and compares statuses.
type Reconciler struct {
	table   StatusTable
	policy  Policy
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithPolicy sets the fetch-failure policy.
func WithPolicy(p Policy) Option {
	return func(r *Reconciler) {
		r.policy = p
	}
}

// WithLogger sets the logger mismatches are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// New creates a Reconciler using table.
func New(table StatusTable, opts ...Option) *Reconciler {
	r := &Reconciler{
		table:  table,
		policy: PolicyAbort,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExpectedSets maps each legend code to its expected set, keeping order.
func (r *Reconciler) ExpectedSets(codes []model.StatusCode) []model.ExpectedStatusSet {
	sets := make([]model.ExpectedStatusSet, len(codes))
	for i, c := range codes {
		sets[i] = r.table.Expected(c.Code)
	}
	return sets
}

// Reconcile checks every entry against the expected set at the same position.
// Detail URLs are resolved against base. Records are returned in entry order.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	base string,
	expected []model.ExpectedStatusSet,
	entries []model.ProposalEntry,
	src StatusSource,
) ([]model.ReconciliationRecord, error) {
	if len(expected) < len(entries) {
		return nil, fmt.Errorf("%w: %d codes, %d links", ErrPairingMismatch, len(expected), len(entries))
	}
	if surplus := len(expected) - len(entries); surplus > 0 {
		r.logger.Warn("legend codes without a proposal link are ignored",
			"codes", len(expected), "links", len(entries), "ignored", surplus)
	}

	records := make([]model.ReconciliationRecord, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url, err := crawler.Resolve(base, entry.Href)
		if err != nil {
			return nil, err
		}

		record := model.ReconciliationRecord{
			Entry:    entry,
			URL:      url,
			Expected: expected[i],
		}

		status, err := src.Status(ctx, url)
		switch {
		case err == nil:
			record.Observed = status
			record.Match = record.Expected.Contains(status)
			if !record.Match {
				r.logger.Info("mismatched statuses",
					"url", url,
					"status", status,
					"expected", record.Expected.String())
				r.metrics.StatusMismatch()
			}
		case errors.Is(err, ErrDetailUnavailable) && r.policy == PolicySkip:
			r.logger.Warn("proposal skipped, detail page unavailable", "url", url)
			r.metrics.PageSkipped()
			record.Observed = UnknownStatus
			record.Unknown = true
		default:
			return nil, fmt.Errorf("proposal %s: %w", entry.Number, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// Aggregate counts observed statuses in first-seen order and appends a
// Total row equal to the number of records.
func Aggregate(mode string, records []model.ReconciliationRecord) *model.Table {
	table := model.NewTable(mode, "Status", "Count")

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := counts[rec.Observed]; !seen {
			order = append(order, rec.Observed)
		}
		counts[rec.Observed]++
	}

	for _, status := range order {
		table.Rows = append(table.Rows, model.Row{status, fmt.Sprint(counts[status])})
	}
	table.Rows = append(table.Rows, model.Row{"Total", fmt.Sprint(len(records))})

	return table
}
