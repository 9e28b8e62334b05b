package extract

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/metrics"
)

// site serves fixed pages by path. Paths that are not listed return 404.
type site map[string]string

func (s site) serve(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := s[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSession(m *metrics.Recorder) *crawler.Session {
	return crawler.NewSession(crawler.WithLogger(discardLogger()), crawler.WithMetrics(m))
}
