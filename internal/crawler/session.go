package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nao1215/docscan/internal/cache"
	"github.com/nao1215/docscan/internal/metrics"
)

// ErrFetchFailed is returned by MustFetch when a page cannot be fetched.
var ErrFetchFailed = errors.New("fetch failed")

// Result is the outcome of a single fetch.
// A nil Body means the fetch failed and the caller must skip the page.
type Result struct {
	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status, or 0 when the request never completed.
	StatusCode int

	// ContentType is the Content-Type header of the response.
	ContentType string

	// Body is the response body. It is nil when the fetch failed.
	Body []byte

	// FromCache reports whether the response was served from the cache.
	FromCache bool
}

// OK reports whether the fetch produced a body.
func (r *Result) OK() bool {
	return r != nil && r.Body != nil
}

// Store is the response cache used by a Session.
type Store interface {
	Get(ctx context.Context, url string) (*cache.Entry, error)
	Put(ctx context.Context, entry *cache.Entry) error
	Clear(ctx context.Context) (int64, error)
}

// Session performs HTTP GET requests for every mode of a run.
// It is reused across fetches and consults the response cache first.
// Fetches are sequential; a Session is not meant for concurrent use.
type Session struct {
	client    *resty.Client
	store     Store
	metrics   *metrics.Recorder
	logger    *slog.Logger
	timeout   time.Duration
	userAgent string
}

// Option configures a Session.
type Option func(*Session)

// WithStore sets the response cache. Without a store every fetch hits the network.
func WithStore(store Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithTimeout sets the timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// WithHTTPClient makes the session send requests through a copy of client.
// The session sets its own timeout on the copy; client is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		clone := *client
		s.client = resty.NewWithClient(&clone)
	}
}

// NewSession creates a Session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		timeout:   30 * time.Second,
		userAgent: "docscan/1.0",
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = resty.New()
	}
	s.client.SetTimeout(s.timeout)
	s.client.SetHeader("User-Agent", s.userAgent)
	s.client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return s
}

// Fetch retrieves url. It never returns an error: a transport failure or a
// non-2xx status is logged at WARN and yields a Result with a nil Body.
// Successful responses are cached and later fetches of the same URL are
// served from the cache.
func (s *Session) Fetch(ctx context.Context, url string) *Result {
	if s.store != nil {
		entry, err := s.store.Get(ctx, url)
		if err != nil {
			s.logger.Debug("cache lookup failed", "url", url, "error", err)
		}
		if entry != nil {
			s.logger.Debug("served from cache", "url", url)
			s.metrics.Fetched(metrics.SourceCache)
			return &Result{
				URL:         url,
				StatusCode:  entry.StatusCode,
				ContentType: entry.ContentType,
				Body:        nonNil(entry.Body),
				FromCache:   true,
			}
		}
	}

	s.logger.Debug("fetching", "url", url)

	resp, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		s.logger.Warn("error while fetching page", "url", url, "error", err)
		s.metrics.FetchFailed()
		return &Result{URL: url}
	}

	if !resp.IsSuccess() {
		s.logger.Warn("unexpected response status", "url", url, "status", resp.StatusCode())
		s.metrics.FetchFailed()
		return &Result{URL: url, StatusCode: resp.StatusCode()}
	}

	result := &Result{
		URL:         url,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        nonNil(resp.Body()),
	}
	s.metrics.Fetched(metrics.SourceNetwork)

	if s.store != nil {
		err := s.store.Put(ctx, &cache.Entry{
			URL:         url,
			StatusCode:  result.StatusCode,
			ContentType: result.ContentType,
			Body:        result.Body,
		})
		if err != nil {
			s.logger.Warn("failed to cache response", "url", url, "error", err)
		}
	}

	return result
}

// MustFetch is Fetch for call sites where a failure is fatal.
// It returns ErrFetchFailed when no body could be retrieved.
func (s *Session) MustFetch(ctx context.Context, url string) ([]byte, error) {
	result := s.Fetch(ctx, url)
	if !result.OK() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, url, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, url)
	}
	return result.Body, nil
}

// ClearCache removes every cached response.
func (s *Session) ClearCache(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	n, err := s.store.Clear(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("response cache cleared", "entries", n)
	return nil
}

// nonNil turns an empty body into a non-nil empty slice so that an empty
// successful response is not mistaken for a failed fetch.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
