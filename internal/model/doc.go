// Package model defines the data structures shared by docscan packages.
//
// This package contains the following main types:
//   - Table: The tabular result every report mode hands to a renderer
//   - ProposalEntry: A numbered proposal link found in the proposal index
//   - StatusCode / ExpectedStatusSet: Legend codes and the statuses they allow
//   - ReconciliationRecord: The outcome of comparing one proposal's status
//
// Models live in their own package so that the extract, reconcile and report
// packages can share them without import cycles. Tables are serializable to
// JSON for the JSON renderer.
package model
