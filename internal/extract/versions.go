package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/nao1215/docscan/internal/dom"
	"github.com/nao1215/docscan/internal/model"
)

// ErrVersionListNotFound is returned when the sidebar has no list of versions.
var ErrVersionListNotFound = errors.New("list of Python versions not found")

// versionMarker identifies the sidebar list that holds the version links.
const versionMarker = "All versions"

var versionPattern = regexp.MustCompile(`(\w+) (\d\.\d+) \((.*)\)`)

// LatestVersions builds the table of documentation versions.
type LatestVersions struct {
	fetcher Fetcher
	mainURL string
	options
}

// NewLatestVersions creates the latest-versions extractor.
func NewLatestVersions(fetcher Fetcher, mainURL string, opts ...Option) *LatestVersions {
	return &LatestVersions{
		fetcher: fetcher,
		mainURL: mainURL,
		options: newOptions(opts),
	}
}

// Name returns the mode name.
func (l *LatestVersions) Name() string {
	return ModeLatestVersions
}

// Extract reads the version links from the sidebar of the main page.
func (l *LatestVersions) Extract(ctx context.Context) (*model.Table, error) {
	result := l.fetcher.Fetch(ctx, l.mainURL)
	if !result.OK() {
		return nil, nil
	}

	doc := dom.Parse(result.Body)
	sidebar, err := doc.Require(dom.Tag("div").Class("sphinxsidebarwrapper"))
	if err != nil {
		return nil, err
	}

	var list *dom.Node
	for _, ul := range sidebar.FindAll(dom.Tag("ul")) {
		if strings.Contains(ul.Text(), versionMarker) {
			list = ul
			break
		}
	}
	if list == nil {
		return nil, ErrVersionListNotFound
	}

	table := model.NewTable(ModeLatestVersions, "Link to documentation", "Version", "Status")
	for _, a := range list.FindAll(dom.Tag("a")) {
		href, _ := a.Attr("href")
		version, status := ParseVersion(a.Text())
		if err := table.Append(href, version, status); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("versions found", "count", table.Len())

	return table, nil
}

// ParseVersion splits a link text such as "Python 3.12 (stable)" into its
// version and status. Text that does not match is returned whole with an
// empty status.
func ParseVersion(text string) (version, status string) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[2], m[3]
}
