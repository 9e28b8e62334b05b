package extract

import (
	"context"
	"log/slog"

	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/metrics"
)

// Mode names.
const (
	ModeWhatsNew       = "whats-new"
	ModeLatestVersions = "latest-versions"
	ModeDownload       = "download"
	ModePEP            = "pep"
)

// Fetcher retrieves pages. *crawler.Session satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) *crawler.Result
	MustFetch(ctx context.Context, url string) ([]byte, error)
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures an extractor.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
