// Package main provides the entry point for the forumcrawl CLI.
//
// forumcrawl walks a vBulletin-style forum archive (archive index, category
// pages, paginated thread listings, threads) and stores every thread's
// question and responses in SQLite.
//
// Usage:
//
//	forumcrawl crawl
//	forumcrawl export --markdown -o threads.md
//
// See --help for all available options.
package main

func main() {
	Execute()
}
