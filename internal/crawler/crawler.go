package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/model"
)

// Store persists one thread and its responses in a single transaction.
// *database.ThreadDB implements it.
type Store interface {
	Persist(ctx context.Context, question string, responses []string) (int64, error)
}

// Crawler walks the archive and hands every thread it finds to a Store.
//
// For each category the Crawler fetches page 1 (the category URL itself)
// and then drives a Paginator from page 2. Page 1 is never requested by
// the Paginator, so it is fetched exactly once.
type Crawler struct {
	fetcher   Fetcher
	store     Store
	extractor *Extractor

	archiveRoot      string
	categorySelector LinkSelector
	threadSelector   LinkSelector
	separator        string

	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithArchiveRoot sets the archive index URL the run starts from.
func WithArchiveRoot(root string) Option {
	return func(c *Crawler) {
		c.archiveRoot = root
	}
}

// WithCategorySelector sets the selector applied to archive page links.
func WithCategorySelector(s LinkSelector) Option {
	return func(c *Crawler) {
		c.categorySelector = s
	}
}

// WithThreadSelector sets the selector applied to listing page links.
func WithThreadSelector(s LinkSelector) Option {
	return func(c *Crawler) {
		c.threadSelector = s
	}
}

// WithPageSeparator sets the token between a category URL and a page index.
func WithPageSeparator(sep string) Option {
	return func(c *Crawler) {
		if sep != "" {
			c.separator = sep
		}
	}
}

// WithExtractor sets the extractor.
func WithExtractor(e *Extractor) Option {
	return func(c *Crawler) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler. Without options it crawls the default archive
// with the positional skip policy (7 chrome links on the archive page,
// 3 on listing pages).
func New(fetcher Fetcher, store Store, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:          fetcher,
		store:            store,
		extractor:        NewExtractor(),
		archiveRoot:      config.DefaultArchiveRoot,
		categorySelector: SkipLeading(config.DefaultCategorySkip),
		threadSelector:   SkipLeading(config.DefaultListingSkip),
		separator:        config.DefaultPageSeparator,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// NewFromConfig creates a Crawler from a validated configuration.
func NewFromConfig(cfg *config.Config, fetcher Fetcher, store Store, logger *slog.Logger) *Crawler {
	threads := SkipLeading(cfg.ListingSkip)
	if len(cfg.ThreadFollowPatterns) > 0 || len(cfg.ThreadIgnorePatterns) > 0 {
		threads = Chain(threads, MatchPatterns(cfg.ThreadFollowPatterns, cfg.ThreadIgnorePatterns))
	}

	return New(fetcher, store,
		WithArchiveRoot(cfg.ArchiveRoot),
		WithCategorySelector(SkipLeading(cfg.CategorySkip)),
		WithThreadSelector(threads),
		WithPageSeparator(cfg.PageSeparator),
		WithExtractor(NewExtractor(WithPostMarker(cfg.PostMarker))),
		WithLogger(logger),
	)
}

// Run crawls the archive once.
//
// Only a failure on the archive root is returned, wrapped in
// ErrArchiveUnavailable. Category, listing, thread and persist failures
// are logged and counted in the returned stats. When ctx is cancelled Run
// returns ctx.Err() together with the stats collected so far.
func (c *Crawler) Run(ctx context.Context) (model.RunStats, error) {
	stats := model.RunStats{
		ArchiveRoot: c.archiveRoot,
		StartedAt:   time.Now(),
	}
	finish := func(err error) (model.RunStats, error) {
		stats.FinishedAt = time.Now()
		if ctxErr := ctx.Err(); ctxErr != nil {
			stats.Cancelled = true
			if err == nil || !errors.Is(err, ctxErr) {
				err = ctxErr
			}
		}
		return stats, err
	}

	c.logger.Info("crawl started", "archive", c.archiveRoot)

	archive, err := c.fetchDocument(ctx, c.archiveRoot, model.RoleArchive)
	if err != nil {
		if ctx.Err() != nil {
			return finish(nil)
		}
		c.logger.Error("archive unavailable", "url", c.archiveRoot, "error", err)
		return finish(fmt.Errorf("%w: %w", ErrArchiveUnavailable, err))
	}

	categories := c.resolveLinks(archive, c.categorySelector)
	stats.CategoriesFound = len(categories)
	c.logger.Info("categories found", "count", len(categories))

	for _, category := range categories {
		if ctx.Err() != nil {
			c.logger.Warn("crawl cancelled", "category", category, "reason", ctx.Err())
			return finish(nil)
		}
		c.crawlCategory(ctx, category, &stats)
	}

	stats, err = finish(nil)
	c.logger.Info("crawl finished",
		"threads", stats.ThreadsPersisted,
		"responses", stats.ResponsesPersisted,
		"categories_skipped", stats.CategoriesSkipped,
		"threads_skipped", stats.ThreadsSkipped,
		"duration", stats.Duration(),
	)
	return stats, err
}

// crawlCategory processes page 1 of a category and then its paginated
// listing pages.
func (c *Crawler) crawlCategory(ctx context.Context, category string, stats *model.RunStats) {
	first, err := c.fetchDocument(ctx, category, model.RoleCategory)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("skipping category", "url", category, "error", err)
			stats.CategoriesSkipped++
		}
		return
	}
	stats.CategoriesProcessed++

	c.logger.Debug("category", "url", category)
	c.processListing(ctx, first, stats)

	pager := NewPaginator(c.fetcher, category,
		WithSeparator(c.separator),
		WithPaginatorExtractor(c.extractor),
		WithPaginatorLogger(c.logger),
	)
	for listing := range pager.Pages(ctx) {
		c.processListing(ctx, listing, stats)
	}

	c.logger.Debug("category exhausted",
		"url", category,
		"last_page", max(pager.Page(), 1),
		"reason", pager.StopReason(),
	)
}

// processListing visits every thread linked from one listing page.
func (c *Crawler) processListing(ctx context.Context, listing *Document, stats *model.RunStats) {
	stats.ListingPages++

	for _, link := range c.resolveLinks(listing, c.threadSelector) {
		if ctx.Err() != nil {
			return
		}
		c.processThread(ctx, link, stats)
	}
}

// processThread fetches one thread and persists it when it has a question.
func (c *Crawler) processThread(ctx context.Context, threadURL string, stats *model.RunStats) {
	doc, err := c.fetchDocument(ctx, threadURL, model.RoleThreadDetail)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Warn("skipping thread", "url", threadURL, "error", err)
			stats.ThreadsSkipped++
		}
		return
	}

	thread, ok := c.extractor.Thread(doc)
	if !ok || !thread.Valid() {
		c.logger.Debug("thread has no posts", "url", threadURL)
		stats.ThreadsEmpty++
		return
	}

	id, err := c.store.Persist(ctx, thread.Question, thread.Responses)
	if err != nil {
		if ctx.Err() != nil {
			c.logger.Debug("persist interrupted", "url", threadURL, "error", err)
			return
		}
		c.logger.Error("failed to persist thread", "url", threadURL, "error", err)
		stats.PersistFailures++
		return
	}

	c.logger.Debug("thread persisted", "url", threadURL, "id", id, "responses", len(thread.Responses))
	stats.ThreadsPersisted++
	stats.ResponsesPersisted += len(thread.Responses)
}

// fetchDocument fetches and parses one page.
func (c *Crawler) fetchDocument(ctx context.Context, rawURL string, role model.Role) (*Document, error) {
	page, err := c.fetcher.Fetch(ctx, rawURL, role)
	if err != nil {
		return nil, err
	}
	return Parse(page)
}

// resolveLinks applies selector to the anchors of doc and resolves the
// kept hrefs against the page URL. Non-navigational hrefs are dropped
// after selection so that positional skips count every anchor.
func (c *Crawler) resolveLinks(doc *Document, selector LinkSelector) []string {
	links := c.extractor.Links(doc, selector)
	resolved := make([]string, 0, len(links))
	for _, href := range links {
		if abs := resolveURL(doc.URL(), href); abs != "" {
			resolved = append(resolved, abs)
		}
	}
	return resolved
}
