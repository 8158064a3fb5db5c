package crawler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/model"
)

// listingItemSelector matches the items enumerated on a listing page.
const listingItemSelector = "li"

// Document is a parsed page ready for queries.
// Parsing is done once per page and every extraction mode runs on the
// same tree.
type Document struct {
	page *model.Page
	doc  *goquery.Document
}

// Parse parses the page body with golang.org/x/net/html.
// A body that is not HTML or does not parse is returned as *ParseError.
func Parse(page *model.Page) (*Document, error) {
	if !page.IsHTML() {
		return nil, &ParseError{
			URL:  page.URL,
			Role: page.Role,
			Err:  fmt.Errorf("content type %q is not HTML", page.ContentType),
		}
	}
	node, err := html.Parse(page.Reader())
	if err != nil {
		return nil, &ParseError{URL: page.URL, Role: page.Role, Err: err}
	}
	return &Document{
		page: page,
		doc:  goquery.NewDocumentFromNode(node),
	}, nil
}

// Page returns the page the document was parsed from.
func (d *Document) Page() *model.Page {
	return d.page
}

// URL returns the source URL of the page.
func (d *Document) URL() string {
	return d.page.URL
}

// Anchors returns the href of every anchor with a non-empty href attribute,
// in document order. Values are returned as written in the page.
func (d *Document) Anchors() []string {
	links := make([]string, 0)
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})
	return links
}

// ListingItemCount returns the number of listing items on the page.
func (d *Document) ListingItemCount() int {
	return d.doc.Find(listingItemSelector).Length()
}

// PostMessages returns the trimmed text of every element whose id contains
// marker, in document order.
func (d *Document) PostMessages(marker string) []string {
	messages := make([]string, 0)
	d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return strings.Contains(id, marker)
	}).Each(func(_ int, s *goquery.Selection) {
		messages = append(messages, normalizeText(s.Text()))
	})
	return messages
}

// normalizeText trims surrounding whitespace and applies Unicode NFC so
// that the same post text always stores as the same bytes.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Extractor runs the role-specific extraction modes.
type Extractor struct {
	// postMarker is the id substring identifying post elements.
	postMarker string
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithPostMarker sets the id substring that identifies post elements.
func WithPostMarker(marker string) ExtractorOption {
	return func(e *Extractor) {
		if marker != "" {
			e.postMarker = marker
		}
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{postMarker: config.DefaultPostMarker}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Links performs listing-link extraction: every anchor href in document
// order, narrowed by selector. A nil selector keeps every link.
func (e *Extractor) Links(doc *Document, selector LinkSelector) []string {
	links := doc.Anchors()
	if selector == nil {
		return links
	}
	return selector.Select(links)
}

// Thread performs thread-detail extraction. The first post is the
// question and the rest are the responses. It returns false when the page
// has no post; that is an empty result, not an error.
func (e *Extractor) Thread(doc *Document) (model.Thread, bool) {
	return model.NewThread(doc.PostMessages(e.postMarker))
}

// ListingItems returns the number of listing items on the page. A listing
// page with zero items ends pagination.
func (e *Extractor) ListingItems(doc *Document) int {
	return doc.ListingItemCount()
}
