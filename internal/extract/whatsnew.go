package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/dom"
	"github.com/nao1215/docscan/internal/model"
)

// WhatsNew builds the table of release-notes articles.
type WhatsNew struct {
	fetcher Fetcher
	mainURL string
	options
}

// NewWhatsNew creates the whats-new extractor for the documentation at mainURL.
func NewWhatsNew(fetcher Fetcher, mainURL string, opts ...Option) *WhatsNew {
	return &WhatsNew{
		fetcher: fetcher,
		mainURL: mainURL,
		options: newOptions(opts),
	}
}

// Name returns the mode name.
func (w *WhatsNew) Name() string {
	return ModeWhatsNew
}

// Extract fetches the release-notes index and every article it links to.
// Articles that cannot be fetched are left out of the table.
func (w *WhatsNew) Extract(ctx context.Context) (*model.Table, error) {
	indexURL, err := crawler.Resolve(w.mainURL, "whatsnew/")
	if err != nil {
		return nil, err
	}

	result := w.fetcher.Fetch(ctx, indexURL)
	if !result.OK() {
		return nil, nil
	}

	doc := dom.Parse(result.Body)
	section, err := doc.Require(dom.Tag("section").ID("what-s-new-in-python"))
	if err != nil {
		return nil, err
	}
	wrapper, err := section.Require(dom.Tag("div").Class("toctree-wrapper"))
	if err != nil {
		return nil, err
	}
	items := wrapper.FindAll(dom.Tag("li").Class("toctree-l1"))

	table := model.NewTable(ModeWhatsNew, "Link to article", "Title", "Editor, author")
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := item.Require(dom.Tag("a"))
		if err != nil {
			return nil, err
		}
		href, _ := a.Attr("href")
		link, err := crawler.Resolve(indexURL, href)
		if err != nil {
			return nil, err
		}

		w.logger.Debug("reading article", "link", link, "item", i+1, "of", len(items))

		page := w.fetcher.Fetch(ctx, link)
		if !page.OK() {
			w.metrics.PageSkipped()
			continue
		}

		article := dom.Parse(page.Body)
		h1, err := article.Require(dom.Tag("h1"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", link, err)
		}
		dl, err := article.Require(dom.Tag("dl"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", link, err)
		}

		if err := table.Append(link, h1.Text(), strings.ReplaceAll(dl.Text(), "\n", " ")); err != nil {
			return nil, err
		}
	}

	return table, nil
}
