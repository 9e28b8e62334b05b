// Package crawler fetches pages for docscan.
//
// # Session
//
// A Session wraps a resty client and is shared by every fetch of a run.
// Before going to the network it consults the SQLite response cache, and
// it stores every successful (2xx) response there.
//
// Fetch never fails loudly. A transport error or a non-2xx status is logged
// at WARN and the returned Result has a nil Body, which callers treat as
// "skip this page". MustFetch turns that into ErrFetchFailed for call sites
// where a missing page is fatal.
//
// No request is ever retried and fetches are strictly sequential.
//
// # Usage
//
//	session := crawler.NewSession(
//	    crawler.WithStore(store),
//	    crawler.WithTimeout(30*time.Second),
//	    crawler.WithLogger(logger),
//	)
//	result := session.Fetch(ctx, "https://docs.python.org/3/")
//	if !result.OK() {
//	    return nil
//	}
package crawler
