package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".forumcrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .forumcrawl configuration file.
// Every field is optional; pointer fields distinguish "unset" from zero.
type File struct {
	// ArchiveRoot overrides the crawl entry point.
	ArchiveRoot string `yaml:"archiveRoot,omitempty"`

	// StoragePath overrides the SQLite database path.
	StoragePath string `yaml:"storagePath,omitempty"`

	// RequestDelay overrides the pause after each request ("1s", "500ms").
	RequestDelay *time.Duration `yaml:"requestDelay,omitempty"`

	// CategorySkip overrides the number of leading archive anchors dropped.
	CategorySkip *int `yaml:"categorySkip,omitempty"`

	// ListingSkip overrides the number of leading listing anchors dropped.
	ListingSkip *int `yaml:"listingSkip,omitempty"`

	// PageSeparator overrides the pagination separator.
	PageSeparator string `yaml:"pageSeparator,omitempty"`

	// PostMarker overrides the post element id substring.
	PostMarker string `yaml:"postMarker,omitempty"`

	// Timeout overrides the per-request timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxBodySize overrides the response body limit in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// MaxRequestsPerMinute overrides the request rate cap.
	MaxRequestsPerMinute *int `yaml:"maxRequestsPerMinute,omitempty"`

	// RespectRobots overrides robots.txt compliance.
	RespectRobots *bool `yaml:"respectRobots,omitempty"`

	// Threads holds URL path patterns applied to thread links.
	Threads LinkPatterns `yaml:"threads,omitempty"`
}

// LinkPatterns are glob patterns matched against link URL paths.
type LinkPatterns struct {
	// Follow lists patterns a link must match to be kept.
	Follow []string `yaml:"follow,omitempty"`

	// Ignore lists patterns that drop a link.
	Ignore []string `yaml:"ignore,omitempty"`
}

// LoadConfigFile loads a configuration file from path.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies every value set in the file onto c.
// Values left unset in the file keep the value already in c.
func (f *File) Apply(c *Config) {
	if f.ArchiveRoot != "" {
		c.ArchiveRoot = f.ArchiveRoot
	}
	if f.StoragePath != "" {
		c.StoragePath = f.StoragePath
	}
	if f.RequestDelay != nil {
		c.RequestDelay = *f.RequestDelay
	}
	if f.CategorySkip != nil {
		c.CategorySkip = *f.CategorySkip
	}
	if f.ListingSkip != nil {
		c.ListingSkip = *f.ListingSkip
	}
	if f.PageSeparator != "" {
		c.PageSeparator = f.PageSeparator
	}
	if f.PostMarker != "" {
		c.PostMarker = f.PostMarker
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.MaxRequestsPerMinute != nil {
		c.MaxRequestsPerMinute = *f.MaxRequestsPerMinute
	}
	if f.RespectRobots != nil {
		c.RespectRobots = *f.RespectRobots
	}
	if len(f.Threads.Follow) > 0 {
		c.ThreadFollowPatterns = f.Threads.Follow
	}
	if len(f.Threads.Ignore) > 0 {
		c.ThreadIgnorePatterns = f.Threads.Ignore
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .forumcrawl in the current directory
// 3. Look for .forumcrawl in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
