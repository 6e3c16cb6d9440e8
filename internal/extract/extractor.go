package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Defaults for the one retailer the tool originally targeted. Other sites
// supply their own values through the settings file.
const (
	// DefaultBaseURL is the URL relative product links are resolved
	// against.
	DefaultBaseURL = "https://www.carrefour.fr"

	// DefaultProductPattern matches Carrefour product hrefs. The domain
	// prefix is optional so both absolute and relative links match; the
	// first capture group is the product URL.
	DefaultProductPattern = `href=["']((?:https://www\.carrefour\.fr)?/p/[^"']+)["']`
)

// Extractor scans listing page HTML for product links.
//
// Matches are returned in order of first occurrence and duplicates are
// preserved: the same product appearing twice on a page yields two entries.
// Deduplication, when wanted, happens downstream (the link store keys on
// URL).
type Extractor struct {
	// pattern matches product hrefs; group 1 is the product URL.
	pattern *regexp.Regexp

	// baseURL resolves relative matches to absolute URLs.
	baseURL *url.URL
}

// NewExtractor creates an extractor for the given base URL and pattern.
// Empty arguments fall back to the Carrefour defaults.
func NewExtractor(baseURL, pattern string) (*Extractor, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pattern == "" {
		pattern = DefaultProductPattern
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid product pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("product pattern %q has no capture group", pattern)
	}

	return &Extractor{pattern: re, baseURL: base}, nil
}

// ProductLinks returns every product URL found in the HTML, resolved
// against the base URL, in order of first occurrence. The result is empty
// (never nil) when nothing matches.
func (e *Extractor) ProductLinks(html string) []string {
	matches := e.pattern.FindAllStringSubmatch(html, -1)

	links := make([]string, 0, len(matches))
	for _, m := range matches {
		link := strings.TrimSpace(m[1])
		if link == "" {
			continue
		}

		u, err := url.Parse(link)
		if err != nil {
			// A href that matched the pattern but does not parse is
			// junk markup; skip it.
			continue
		}

		links = append(links, e.baseURL.ResolveReference(u).String())
	}

	return links
}
