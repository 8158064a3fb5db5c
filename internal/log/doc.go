// Package log provides the slog handler used by forumcrawl.
//
// Forum archives hand out session identifiers in query strings
// (vBulletin's ?s=<hash>), and those URLs end up in log lines for every
// skipped page. SecureHandler removes them, together with cookies and
// authorization headers, before a record reaches the output:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("skipping thread", "url", "http://forum.test/t-1.html?s=0f3a")
//	// url=http://forum.test/t-1.html?s=REDACTED
//
// The level is Warn by default and Debug in verbose mode.
package log
