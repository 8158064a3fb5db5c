// Package crawler walks a forum archive and hands every thread it finds to
// a store.
//
// # Traversal
//
// The archive is a fixed hierarchy:
//
//	archive root → category pages → paginated listing pages → thread pages
//
// The Crawler fetches the archive root, selects category links from it, and
// for each category fetches the first listing page itself before driving a
// Paginator over pages 2, 3, ... until a page fails to fetch or lists no
// items. Every thread link on every listing page is fetched, its post
// messages are extracted, and threads with at least one message are
// persisted.
//
// # Components
//
//   - Fetcher: one blocking GET per URL, typed failures, politeness delay
//   - Document, Extractor: HTML parsing and role-specific extraction
//   - LinkSelector: which anchors on a listing page are content links
//   - Paginator: the page-number state machine of one category
//   - Crawler: the orchestrator
//
// # Failures
//
// Only an unreachable archive root aborts a run (ErrArchiveUnavailable).
// Any other fetch or parse failure skips that category or thread, is logged,
// and is counted in model.RunStats. Nothing is retried.
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(http.DefaultClient, crawler.WithDelay(time.Second))
//	c := crawler.New(fetcher, store, crawler.WithArchiveRoot(root))
//	stats, err := c.Run(ctx)
package crawler
