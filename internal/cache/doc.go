// Package cache provides the SQLite-backed HTTP response cache of docscan.
//
// Only successful responses are stored. An entry is keyed by its URL and
// keeps the status code, the content type, the body and the time it was
// fetched. The cache survives between runs and is emptied with
// `docscan scan --clear-cache` or `docscan cache --clear`.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary stays
// a single static executable.
package cache
