package model

import (
	"bytes"
	"io"
	"strings"
)

// MaxPageSize is the default maximum number of body bytes kept per page.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page is a fetched document tagged with its source URL and role.
// Pages are transient: the fetcher produces them, the extractor consumes
// them, and nothing keeps them after extraction.
type Page struct {
	// URL is the address the page was served from, after redirects.
	URL string `json:"url"`

	// Role is the traversal position the page was fetched for.
	Role Role `json:"role"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the Content-Type response header.
	ContentType string `json:"content_type,omitempty"`

	// Body is the raw response body, at most MaxPageSize bytes unless the
	// fetcher was configured otherwise.
	Body []byte `json:"-"`
}

// Reader returns a reader over the page body.
func (p *Page) Reader() io.Reader {
	return bytes.NewReader(p.Body)
}

// IsHTML returns true if the content type indicates HTML.
// An empty content type is treated as HTML because archive servers
// frequently omit the header.
func (p *Page) IsHTML() bool {
	if p.ContentType == "" {
		return true
	}
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
