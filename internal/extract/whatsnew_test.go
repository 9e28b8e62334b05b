package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/docscan/internal/dom"
	"github.com/nao1215/docscan/internal/metrics"
	"github.com/nao1215/docscan/internal/model"
)

const whatsNewIndex = `<html><body>
<section id="what-s-new-in-python">
  <div class="toctree-wrapper compound">
    <ul>
      <li class="toctree-l1"><a class="reference internal" href="3.13.html">What's New In Python 3.13</a></li>
      <li class="toctree-l1"><a class="reference internal" href="3.12.html">What's New In Python 3.12</a></li>
      <li class="toctree-l1"><a class="reference internal" href="3.11.html">What's New In Python 3.11</a></li>
    </ul>
  </div>
</section>
</body></html>`

func article(title, editor string) string {
	return `<html><body><h1>` + title + `</h1><dl class="field-list"><dt>Editor</dt>
<dd>` + editor + `</dd></dl></body></html>`
}

// TestWhatsNew tests the release-notes extractor.
func TestWhatsNew(t *testing.T) {
	t.Parallel()

	t.Run("skips articles that cannot be fetched", func(t *testing.T) {
		t.Parallel()

		server := site{
			"/3/whatsnew/":          whatsNewIndex,
			"/3/whatsnew/3.13.html": article("What's New In Python 3.13", "Thomas Wouters"),
			"/3/whatsnew/3.11.html": article("What's New In Python 3.11", "Pablo Galindo"),
		}.serve(t)

		m := metrics.New()
		w := NewWhatsNew(newSession(m), server.URL+"/3/", WithLogger(discardLogger()), WithMetrics(m))
		table, err := w.Extract(context.Background())
		require.NoError(t, err)
		require.NotNil(t, table)

		assert.Equal(t, model.Row{"Link to article", "Title", "Editor, author"}, table.Header)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, model.Row{
			server.URL + "/3/whatsnew/3.13.html",
			"What's New In Python 3.13",
			"Editor Thomas Wouters",
		}, table.Rows[0])
		assert.Equal(t, server.URL+"/3/whatsnew/3.11.html", table.Rows[1][0])
		assert.NotContains(t, table.Rows[1][2], "\n")

		expected := `
# HELP docscan_pages_skipped_total Pages left out of a report because they could not be fetched.
# TYPE docscan_pages_skipped_total counter
docscan_pages_skipped_total 1
`
		assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
			"docscan_pages_skipped_total"))
	})

	t.Run("unreachable index yields no table", func(t *testing.T) {
		t.Parallel()

		server := site{}.serve(t)
		w := NewWhatsNew(newSession(nil), server.URL+"/3/", WithLogger(discardLogger()))
		table, err := w.Extract(context.Background())
		require.NoError(t, err)
		assert.Nil(t, table)
	})

	t.Run("missing section is a structural error", func(t *testing.T) {
		t.Parallel()

		server := site{"/3/whatsnew/": `<html><body><div class="toctree-wrapper"></div></body></html>`}.serve(t)
		w := NewWhatsNew(newSession(nil), server.URL+"/3/", WithLogger(discardLogger()))
		_, err := w.Extract(context.Background())
		assert.True(t, errors.Is(err, dom.ErrStructural), "expected structural error, got %v", err)
	})

	t.Run("article without dl is a structural error", func(t *testing.T) {
		t.Parallel()

		server := site{
			"/3/whatsnew/":          whatsNewIndex,
			"/3/whatsnew/3.13.html": `<html><body><h1>Title only</h1></body></html>`,
		}.serve(t)
		w := NewWhatsNew(newSession(nil), server.URL+"/3/", WithLogger(discardLogger()))
		_, err := w.Extract(context.Background())
		assert.ErrorIs(t, err, dom.ErrStructural)
	})
}
