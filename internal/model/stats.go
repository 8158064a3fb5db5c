package model

import "time"

// RunStats collects counters over one crawl run.
// It is filled in by the crawler and rendered by the report package.
type RunStats struct {
	// ArchiveRoot is the entry point the run started from.
	ArchiveRoot string `json:"archive_root"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// CategoriesFound is the number of category links after selection.
	CategoriesFound int `json:"categories_found"`

	// CategoriesProcessed counts categories whose first page was fetched.
	CategoriesProcessed int `json:"categories_processed"`

	// CategoriesSkipped counts categories whose first page failed.
	CategoriesSkipped int `json:"categories_skipped"`

	// ListingPages counts listing pages whose links were processed,
	// including each category's first page.
	ListingPages int `json:"listing_pages"`

	// ThreadsPersisted counts threads written to the store.
	ThreadsPersisted int `json:"threads_persisted"`

	// ResponsesPersisted counts replies written to the store.
	ResponsesPersisted int `json:"responses_persisted"`

	// ThreadsSkipped counts thread pages that failed to fetch or parse.
	ThreadsSkipped int `json:"threads_skipped"`

	// ThreadsEmpty counts thread pages with no post messages.
	ThreadsEmpty int `json:"threads_empty"`

	// PersistFailures counts threads the store refused.
	PersistFailures int `json:"persist_failures"`

	// Cancelled is true when the run stopped on context cancellation.
	Cancelled bool `json:"cancelled"`
}

// Duration returns how long the run took.
// It returns zero if the run has not finished.
func (s RunStats) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// ThreadsVisited returns the number of thread pages the run looked at.
func (s RunStats) ThreadsVisited() int {
	return s.ThreadsPersisted + s.ThreadsSkipped + s.ThreadsEmpty + s.PersistFailures
}

// HasFailures reports whether any branch of the traversal was abandoned.
func (s RunStats) HasFailures() bool {
	return s.CategoriesSkipped > 0 || s.ThreadsSkipped > 0 || s.PersistFailures > 0
}
