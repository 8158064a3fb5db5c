// Package model defines the core data structures used throughout forumcrawl.
//
// This package contains the following main types:
//   - Role: The position of a page in the archive hierarchy
//   - Page: A fetched document waiting for extraction
//   - Thread: An opening message and its ordered replies
//   - PersistedThread, PersistedResponse: Rows owned by the store
//   - RunStats: Counters collected over one crawl
//
// The models live in their own package so that crawler, database and report
// can share them without import cycles.
package model
