package crawler

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strconv"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/model"
)

// FirstPaginatedPage is the first page index a Paginator fetches.
// Page 1 is the category base URL itself and belongs to the caller.
const FirstPaginatedPage = 2

// PaginatorState is the state of a Paginator.
type PaginatorState int

const (
	// StateStart is the state before the first fetch.
	StateStart PaginatorState = iota
	// StateFetching is the state while page n is being fetched.
	StateFetching
	// StateYield is the state after page n was handed to the caller.
	StateYield
	// StateStop is terminal.
	StateStop
)

// String returns the state name.
func (s PaginatorState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateFetching:
		return "fetching"
	case StateYield:
		return "yield"
	case StateStop:
		return "stop"
	default:
		return "unknown"
	}
}

// fetchOutcome is what a Fetching state learns about page n.
type fetchOutcome struct {
	// err is a fetch or parse failure.
	err error
	// items is the listing item count of the parsed page.
	items int
}

// nextState is the transition out of Fetching(n).
// A failure or a page with no listing items stops the category.
func nextState(o fetchOutcome) PaginatorState {
	if o.err != nil || o.items == 0 {
		return StateStop
	}
	return StateYield
}

// PageURL builds the URL of page n of a category by concatenation.
func PageURL(base, separator string, n int) string {
	return base + separator + strconv.Itoa(n)
}

// Paginator walks the listing pages of one category, starting at page 2.
// It is forward-only and is consumed once.
type Paginator struct {
	fetcher   Fetcher
	extractor *Extractor
	base      string
	separator string
	logger    *slog.Logger

	// next is the page index of the next fetch.
	next int
	// current is the page index last yielded, 0 before the first yield.
	current    int
	state      PaginatorState
	stopReason error
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithSeparator sets the token between the base URL and the page index.
func WithSeparator(sep string) PaginatorOption {
	return func(p *Paginator) {
		if sep != "" {
			p.separator = sep
		}
	}
}

// WithStartPage overrides the first page index.
func WithStartPage(n int) PaginatorOption {
	return func(p *Paginator) {
		if n > 0 {
			p.next = n
		}
	}
}

// WithPaginatorExtractor sets the extractor used to count listing items.
func WithPaginatorExtractor(e *Extractor) PaginatorOption {
	return func(p *Paginator) {
		if e != nil {
			p.extractor = e
		}
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(logger *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPaginator creates a Paginator over the listing pages of base.
func NewPaginator(fetcher Fetcher, base string, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		fetcher:   fetcher,
		extractor: NewExtractor(),
		base:      base,
		separator: config.DefaultPageSeparator,
		logger:    slog.Default(),
		next:      FirstPaginatedPage,
		state:     StateStart,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next fetches the next listing page. It returns false once the
// Paginator has stopped; StopReason then tells why.
func (p *Paginator) Next(ctx context.Context) (*Document, bool) {
	if p.state == StateStop {
		return nil, false
	}
	if err := ctx.Err(); err != nil {
		p.stop(p.next, err)
		return nil, false
	}

	n := p.next
	p.state = StateFetching
	pageURL := PageURL(p.base, p.separator, n)

	var (
		doc     *Document
		outcome fetchOutcome
	)
	page, err := p.fetcher.Fetch(ctx, pageURL, model.RoleThreadListing)
	if err == nil {
		doc, err = Parse(page)
	}
	if err == nil {
		outcome.items = p.extractor.ListingItems(doc)
	}
	outcome.err = err

	p.state = nextState(outcome)
	if p.state == StateStop {
		if err == nil {
			err = ErrEmptyListing
		}
		p.stop(n, err)
		return nil, false
	}

	p.logger.Debug("listing page", "url", pageURL, "page", n, "items", outcome.items)
	p.current = n
	p.next = n + 1
	return doc, true
}

func (p *Paginator) stop(n int, err error) {
	p.state = StateStop
	p.stopReason = fmt.Errorf("page %d: %w", n, err)
}

// Pages returns the remaining listing pages as a sequence.
// Breaking out of the loop leaves the Paginator where it was.
func (p *Paginator) Pages(ctx context.Context) iter.Seq[*Document] {
	return func(yield func(*Document) bool) {
		for {
			doc, ok := p.Next(ctx)
			if !ok || !yield(doc) {
				return
			}
		}
	}
}

// Page returns the index of the page last yielded, or 0.
func (p *Paginator) Page() int {
	return p.current
}

// State returns the current state.
func (p *Paginator) State() PaginatorState {
	return p.state
}

// StopReason returns why the Paginator stopped, or nil while it runs.
// It wraps ErrEmptyListing, a *FetchError, a *ParseError or a context error.
func (p *Paginator) StopReason() error {
	return p.stopReason
}
