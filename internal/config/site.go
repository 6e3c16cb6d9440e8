package config

import "net/url"

// SiteConfig holds extraction rules for a single retail site.
//
// The original tool hardcoded one retailer's URL shape; keeping the pattern
// in configuration lets the same binary harvest other sites.
type SiteConfig struct {
	// BaseURL is the absolute URL relative product links are resolved
	// against (e.g. "https://www.carrefour.fr").
	BaseURL string `yaml:"baseURL,omitempty"`

	// ProductPattern is the regular expression matching product link
	// href values in listing page HTML. The first capture group is the
	// product URL. Empty means the built-in Carrefour pattern.
	ProductPattern string `yaml:"productPattern,omitempty"`

	// Headers are extra HTTP headers the clearance service should send
	// to the target site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// GetSiteConfig returns the extraction rules for a target URL's host.
// Site-specific values override the defaults field by field.
func (f *File) GetSiteConfig(target string) SiteConfig {
	result := f.Defaults

	host := target
	if u, err := url.Parse(target); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}

	if siteConfig, ok := f.Sites[host]; ok {
		if siteConfig.BaseURL != "" {
			result.BaseURL = siteConfig.BaseURL
		}
		if siteConfig.ProductPattern != "" {
			result.ProductPattern = siteConfig.ProductPattern
		}
		if len(siteConfig.Headers) > 0 {
			// Copy into a fresh map so the shared defaults are not mutated.
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
	}

	return result
}
