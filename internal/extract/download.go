package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nao1215/docscan/internal/crawler"
	"github.com/nao1215/docscan/internal/dom"
	"github.com/nao1215/docscan/internal/model"
)

// Download saves the documentation archive. It produces no table.
type Download struct {
	fetcher  Fetcher
	mainURL  string
	suffix   string
	dir      string
	lastPath string
	options
}

// NewDownload creates the download extractor. The archive whose link ends
// with suffix is saved into dir.
func NewDownload(fetcher Fetcher, mainURL, suffix, dir string, opts ...Option) *Download {
	return &Download{
		fetcher: fetcher,
		mainURL: mainURL,
		suffix:  suffix,
		dir:     dir,
		options: newOptions(opts),
	}
}

// Name returns the mode name.
func (d *Download) Name() string {
	return ModeDownload
}

// LastPath returns the path of the archive saved by the last Extract call.
func (d *Download) LastPath() string {
	return d.lastPath
}

// Extract finds the archive link on the download page and saves the file.
// Unlike the index page, the archive itself must be fetched successfully.
func (d *Download) Extract(ctx context.Context) (*model.Table, error) {
	downloadsURL, err := crawler.Resolve(d.mainURL, "download.html")
	if err != nil {
		return nil, err
	}

	result := d.fetcher.Fetch(ctx, downloadsURL)
	if !result.OK() {
		return nil, nil
	}

	doc := dom.Parse(result.Body)
	table, err := doc.Require(dom.Tag("table").Class("docutils"))
	if err != nil {
		return nil, err
	}

	pattern := regexp.MustCompile(".+" + regexp.QuoteMeta(d.suffix) + "$")
	link, err := table.Require(dom.Tag("a").AttrMatch("href", pattern))
	if err != nil {
		return nil, err
	}

	href, _ := link.Attr("href")
	archiveURL, err := crawler.Resolve(downloadsURL, href)
	if err != nil {
		return nil, err
	}
	name, err := crawler.FileName(archiveURL)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(d.dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create downloads directory: %w", err)
	}

	body, err := d.fetcher.MustFetch(ctx, archiveURL)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, body, 0600); err != nil {
		return nil, fmt.Errorf("failed to save archive: %w", err)
	}

	d.lastPath = path
	d.logger.Info("archive downloaded and saved", "path", path)

	return nil, nil
}
