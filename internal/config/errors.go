package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while the CLI still prints a readable message.
var (
	// ErrNoArchiveRoot is returned when the archive root URL is empty.
	ErrNoArchiveRoot = errors.New("no archive root specified: set --archive or archiveRoot in the config file")

	// ErrInvalidArchiveRoot is returned when the archive root is not an absolute http(s) URL.
	ErrInvalidArchiveRoot = errors.New("invalid archive root: must be an absolute http or https URL")

	// ErrNoStoragePath is returned when the SQLite database path is empty.
	ErrNoStoragePath = errors.New("no storage path specified: set --db or storagePath in the config file")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	// Use 0 to disable the delay between requests.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidSkip is returned when a positional link skip count is negative.
	ErrInvalidSkip = errors.New("invalid link skip count: must be non-negative")

	// ErrInvalidTimeout is returned when the per-request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidRateLimit is returned when the request rate cap is negative.
	// Use 0 for no cap beyond the request delay.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrEmptyPageSeparator is returned when the pagination separator is empty.
	ErrEmptyPageSeparator = errors.New("invalid page separator: must not be empty")

	// ErrEmptyPostMarker is returned when the post id marker is empty.
	ErrEmptyPostMarker = errors.New("invalid post marker: must not be empty")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
