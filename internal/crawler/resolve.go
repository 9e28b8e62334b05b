package crawler

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Resolve resolves href against base the way a browser follows a link.
// Absolute hrefs are returned unchanged; relative ones are joined with base.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}

	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}

	return b.ResolveReference(u).String(), nil
}

// FileName returns the last path segment of rawURL, ignoring query and fragment.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("URL %q has no file name", rawURL)
	}
	return name, nil
}
