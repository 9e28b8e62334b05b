package model

import (
	"slices"
	"strings"
)

// ProposalEntry is one numbered proposal link from the proposal index.
type ProposalEntry struct {
	// Number is the proposal identifier. It consists of digits only.
	Number string `json:"number"`

	// Href is the link target as written in the index page.
	Href string `json:"href"`
}

// IsProposalNumber reports whether s is a non-empty string of ASCII digits.
func IsProposalNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StatusCode is a legend abbreviation found in an index table.
type StatusCode struct {
	// Code is the status letter. It may be empty.
	Code string `json:"code"`

	// Position is the zero-based index of the abbreviation in document order.
	Position int `json:"position"`
}

// ExpectedStatusSet is the ordered set of statuses accepted for a legend code.
type ExpectedStatusSet []string

// Contains reports whether status is a member of the set.
func (s ExpectedStatusSet) Contains(status string) bool {
	return slices.Contains(s, status)
}

// String renders the set as a comma separated list in parentheses.
func (s ExpectedStatusSet) String() string {
	return "(" + strings.Join(s, ", ") + ")"
}

// ReconciliationRecord is the comparison result for one proposal.
type ReconciliationRecord struct {
	// Entry is the proposal that was checked.
	Entry ProposalEntry `json:"entry"`

	// URL is the absolute URL of the proposal's detail page.
	URL string `json:"url"`

	// Expected is the set paired with the entry by position.
	Expected ExpectedStatusSet `json:"expected"`

	// Observed is the status declared on the detail page.
	Observed string `json:"observed"`

	// Match is true when Observed is a member of Expected.
	Match bool `json:"match"`

	// Unknown is true when the detail page could not be fetched and the
	// record was kept under the skip policy.
	Unknown bool `json:"unknown,omitempty"`
}
