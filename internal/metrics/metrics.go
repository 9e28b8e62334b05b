package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch sources used as the value of the "source" label.
const (
	SourceNetwork = "network"
	SourceCache   = "cache"
)

// Recorder holds the counters of one run.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	fetches    *prometheus.CounterVec
	failures   prometheus.Counter
	skipped    prometheus.Counter
	mismatches prometheus.Counter
}

// New creates a Recorder with its counters registered on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docscan",
			Name:      "fetch_total",
			Help:      "Successful page fetches by source.",
		}, []string{"source"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docscan",
			Name:      "fetch_failures_total",
			Help:      "Fetches that failed with a transport error or a non-2xx status.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docscan",
			Name:      "pages_skipped_total",
			Help:      "Pages left out of a report because they could not be fetched.",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docscan",
			Name:      "status_mismatches_total",
			Help:      "Proposals whose declared status is outside the expected set.",
		}),
	}

	r.registry.MustRegister(r.fetches, r.failures, r.skipped, r.mismatches)

	return r
}

// Registry returns the registry holding the counters.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Fetched counts a successful fetch served from source.
func (r *Recorder) Fetched(source string) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(source).Inc()
}

// FetchFailed counts a failed fetch.
func (r *Recorder) FetchFailed() {
	if r == nil {
		return
	}
	r.failures.Inc()
}

// PageSkipped counts a page left out of a report.
func (r *Recorder) PageSkipped() {
	if r == nil {
		return
	}
	r.skipped.Inc()
}

// StatusMismatch counts a proposal whose status is not in its expected set.
func (r *Recorder) StatusMismatch() {
	if r == nil {
		return
	}
	r.mismatches.Inc()
}

// WriteTextfile writes the counters to path in the text exposition format.
// The file is written atomically so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
