// Package database provides SQLite-based storage for forumcrawl.
//
// This package implements ThreadDB, which stores:
//   - threads: one row per crawled thread holding its opening message
//   - responses: one row per reply, linked to its thread by thread_id
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// database is a single file and the binary cross-compiles without a C
// toolchain. Each thread and its replies are written in one transaction.
package database
