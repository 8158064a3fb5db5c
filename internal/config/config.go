package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultArchiveRoot is the archive index of the forum this tool was
	// first written for. Categories and threads are discovered from it.
	DefaultArchiveRoot = "https://www.ford-trucks.com/forums/archive/index.php/"

	// DefaultDBFile is the SQLite file name inside the data directory.
	DefaultDBFile = "forum_data.db"

	// DefaultRequestDelay is the pause after every request.
	// One second keeps the crawler well below any reasonable server limit.
	DefaultRequestDelay = 1 * time.Second

	// DefaultCategorySkip is the number of leading navigation anchors on the
	// archive page that precede the category links.
	DefaultCategorySkip = 7

	// DefaultListingSkip is the number of leading navigation anchors on a
	// thread listing page that precede the thread links.
	DefaultListingSkip = 3

	// DefaultPageSeparator joins a category URL and its page number
	// (https://host/archive/index.php/f-12-p-2.html style archives).
	DefaultPageSeparator = "-p-"

	// DefaultPostMarker is the substring of the id attribute that marks a
	// post body on thread pages (post_message_123).
	DefaultPostMarker = "post_message"

	// DefaultTimeout is the per-request timeout applied by the HTTP client.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies forumcrawl in HTTP requests.
	DefaultUserAgent = "forumcrawl/1.0 (+https://github.com/nao1215/forumcrawl)"

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "forumcrawl"
)

// Config holds all configuration options for forumcrawl.
// It is populated from defaults, the optional config file and CLI flags,
// then passed to the crawler at construction instead of living in globals.
type Config struct {
	// ArchiveRoot is the archive index URL the crawl starts from.
	ArchiveRoot string

	// StoragePath is the path of the SQLite database file.
	StoragePath string

	// RequestDelay is the pause applied after every request, successful or not.
	RequestDelay time.Duration

	// CategorySkip is the number of leading anchors dropped from the archive page.
	CategorySkip int

	// ListingSkip is the number of leading anchors dropped from listing pages.
	ListingSkip int

	// PageSeparator is inserted between a category URL and its page number.
	PageSeparator string

	// PostMarker is the id substring identifying post elements on thread pages.
	PostMarker string

	// ThreadFollowPatterns restricts thread links to URL paths matching
	// at least one glob. Empty means every selected link is followed.
	ThreadFollowPatterns []string

	// ThreadIgnorePatterns drops thread links whose URL path matches any glob.
	ThreadIgnorePatterns []string

	// Timeout is the per-request timeout of the HTTP client.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// MaxRequestsPerMinute caps the request rate on top of RequestDelay.
	// 0 means no cap.
	MaxRequestsPerMinute int

	// RespectRobots makes the fetcher consult robots.txt before each request.
	RespectRobots bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .forumcrawl in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport prints the run summary as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ArchiveRoot:   DefaultArchiveRoot,
		StoragePath:   DefaultStoragePath(),
		RequestDelay:  DefaultRequestDelay,
		CategorySkip:  DefaultCategorySkip,
		ListingSkip:   DefaultListingSkip,
		PageSeparator: DefaultPageSeparator,
		PostMarker:    DefaultPostMarker,
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for forumcrawl.
// On Linux: ~/.local/share/forumcrawl
// On macOS: ~/Library/Application Support/forumcrawl
// On Windows: %LOCALAPPDATA%\forumcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for forumcrawl.
// On Linux: ~/.config/forumcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultStoragePath returns the default SQLite database path inside
// the XDG data directory.
func DefaultStoragePath() string {
	return filepath.Join(XDGDataDir(), DefaultDBFile)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.ArchiveRoot == "" {
		return ErrNoArchiveRoot
	}

	u, err := url.Parse(c.ArchiveRoot)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidArchiveRoot
	}

	if c.StoragePath == "" {
		return ErrNoStoragePath
	}

	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}

	if c.CategorySkip < 0 || c.ListingSkip < 0 {
		return ErrInvalidSkip
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxRequestsPerMinute < 0 {
		return ErrInvalidRateLimit
	}

	if c.PageSeparator == "" {
		return ErrEmptyPageSeparator
	}

	if c.PostMarker == "" {
		return ErrEmptyPostMarker
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
