package crawler

import (
	"net/url"
	"path/filepath"
	"strings"
)

// LinkSelector decides which of a listing page's links are content links.
// Select receives every link in document order and returns the kept links,
// still in document order.
type LinkSelector interface {
	Select(links []string) []string
}

// LinkSelectorFunc adapts a function to LinkSelector.
type LinkSelectorFunc func(links []string) []string

// Select calls f(links).
func (f LinkSelectorFunc) Select(links []string) []string {
	return f(links)
}

// SkipLeading drops the first k links, which on the archive's markup are
// navigation chrome that always precedes the content links.
// When a page has k links or fewer, nothing is kept.
func SkipLeading(k int) LinkSelector {
	return LinkSelectorFunc(func(links []string) []string {
		if k <= 0 {
			return links
		}
		if len(links) <= k {
			return []string{}
		}
		kept := make([]string, len(links)-k)
		copy(kept, links[k:])
		return kept
	})
}

// MatchPatterns keeps links whose URL path matches the glob patterns.
//
// Logic:
//  1. If the path matches any ignore pattern, drop it
//  2. If follow is set and the path matches none, drop it
//  3. Otherwise keep it
func MatchPatterns(follow, ignore []string) LinkSelector {
	return LinkSelectorFunc(func(links []string) []string {
		kept := make([]string, 0, len(links))
		for _, link := range links {
			if shouldFollow(link, follow, ignore) {
				kept = append(kept, link)
			}
		}
		return kept
	})
}

// Chain applies selectors in order, each one seeing the previous result.
// Nil selectors are ignored.
func Chain(selectors ...LinkSelector) LinkSelector {
	return LinkSelectorFunc(func(links []string) []string {
		for _, s := range selectors {
			if s == nil {
				continue
			}
			links = s.Select(links)
		}
		return links
	})
}

// shouldFollow checks a link against ignore and follow patterns.
func shouldFollow(link string, follow, ignore []string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range ignore {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(follow) > 0 {
		for _, pattern := range follow {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}

	return true
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/archive/index.php/t-*" matches "/archive/index.php/t-1234.html"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/archive/*" matches "/archive" and everything one level below it
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Bare filename patterns like "t-*.html" are tried against the last
	// path element.
	if strings.ContainsAny(pattern, "*?") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}

// resolveURL resolves href against base and returns an absolute URL.
// Non-navigational hrefs (javascript:, mailto:, tel:, data:, bare "#")
// resolve to the empty string.
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	b, err := url.Parse(base)
	if err != nil {
		return ""
	}

	return b.ResolveReference(ref).String()
}
