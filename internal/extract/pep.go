package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/docscan/internal/dom"
	"github.com/nao1215/docscan/internal/model"
	"github.com/nao1215/docscan/internal/reconcile"
)

// PEP reconciles proposal statuses against the index legend.
type PEP struct {
	fetcher    Fetcher
	indexURL   string
	reconciler *reconcile.Reconciler
	records    []model.ReconciliationRecord
	options
}

// NewPEP creates the pep extractor.
func NewPEP(fetcher Fetcher, indexURL string, reconciler *reconcile.Reconciler, opts ...Option) *PEP {
	return &PEP{
		fetcher:    fetcher,
		indexURL:   indexURL,
		reconciler: reconciler,
		options:    newOptions(opts),
	}
}

// Name returns the mode name.
func (p *PEP) Name() string {
	return ModePEP
}

// Records returns the reconciliation records of the last Extract call.
func (p *PEP) Records() []model.ReconciliationRecord {
	return p.records
}

// Extract reads the legend codes and numbered links of the index, checks
// every detail page and returns the per-status counts with a Total row.
func (p *PEP) Extract(ctx context.Context) (*model.Table, error) {
	result := p.fetcher.Fetch(ctx, p.indexURL)
	if !result.OK() {
		return nil, nil
	}

	doc := dom.Parse(result.Body)
	section, err := doc.Require(dom.Tag("section").ID("index-by-category"))
	if err != nil {
		return nil, err
	}

	codes := LegendCodes(section)
	entries := ProposalEntries(section)
	p.logger.Debug("proposal index read", "codes", len(codes), "links", len(entries))

	records, err := p.reconciler.Reconcile(ctx, p.indexURL, p.reconciler.ExpectedSets(codes), entries, p)
	if err != nil {
		return nil, err
	}
	p.records = records

	return reconcile.Aggregate(ModePEP, records), nil
}

// Status reads the declared status from a proposal detail page.
func (p *PEP) Status(ctx context.Context, url string) (string, error) {
	result := p.fetcher.Fetch(ctx, url)
	if !result.OK() {
		return "", fmt.Errorf("%w: %s", reconcile.ErrDetailUnavailable, url)
	}

	abbr, err := dom.Parse(result.Body).Require(dom.Tag("abbr"))
	if err != nil {
		return "", fmt.Errorf("%s: %w", url, err)
	}
	return strings.TrimSpace(abbr.Text()), nil
}

// LegendCodes returns the status code of every abbreviation in every table
// of section, in document order. An abbreviation such as "SF" carries the
// proposal type first; the code is what follows it.
func LegendCodes(section *dom.Node) []model.StatusCode {
	codes := make([]model.StatusCode, 0)
	for _, table := range section.FindAll(dom.Tag("table")) {
		for _, abbr := range table.FindAll(dom.Tag("abbr")) {
			codes = append(codes, model.StatusCode{
				Code:     statusCode(abbr.Text()),
				Position: len(codes),
			})
		}
	}
	return codes
}

func statusCode(abbr string) string {
	if abbr == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(abbr)
	return strings.TrimSpace(abbr[size:])
}

// ProposalEntries returns the numbered proposal links of section in document order.
func ProposalEntries(section *dom.Node) []model.ProposalEntry {
	entries := make([]model.ProposalEntry, 0)
	for _, a := range section.FindAll(dom.Tag("a").Class("pep reference internal")) {
		number := strings.TrimSpace(a.Text())
		if !model.IsProposalNumber(number) {
			continue
		}
		href, _ := a.Attr("href")
		entries = append(entries, model.ProposalEntry{Number: number, Href: href})
	}
	return entries
}
