// Package reconcile checks the status each proposal declares on its own page
// against the status the proposal index's legend leads one to expect.
//
// Legend codes and proposal links are discovered independently on the index
// page and paired by position: the i-th code belongs to the i-th numbered
// link. A status outside the expected set is logged and counted but never
// stops the run. The report aggregates observed statuses in the order they
// were first seen and closes with a Total row.
package reconcile
