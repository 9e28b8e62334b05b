// Package metrics counts what a docscan run did: fetches served from the
// network or the cache, failed fetches, skipped pages and proposal status
// mismatches.
//
// Counters live on a private Prometheus registry so that parallel tests and
// embedding programs never collide on the default registry. At the end of a
// run the registry can be written to a node-exporter textfile.
package metrics
