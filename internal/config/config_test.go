package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ArchiveRoot", func(t *testing.T) {
		t.Parallel()
		if cfg.ArchiveRoot != DefaultArchiveRoot {
			t.Errorf("expected ArchiveRoot %q, got %q", DefaultArchiveRoot, cfg.ArchiveRoot)
		}
	})

	t.Run("default RequestDelay is 1 second", func(t *testing.T) {
		t.Parallel()
		if cfg.RequestDelay != time.Second {
			t.Errorf("expected RequestDelay to be 1s, got %v", cfg.RequestDelay)
		}
	})

	t.Run("default skips are 7 and 3", func(t *testing.T) {
		t.Parallel()
		if cfg.CategorySkip != 7 {
			t.Errorf("expected CategorySkip to be 7, got %d", cfg.CategorySkip)
		}
		if cfg.ListingSkip != 3 {
			t.Errorf("expected ListingSkip to be 3, got %d", cfg.ListingSkip)
		}
	})

	t.Run("default page separator and post marker", func(t *testing.T) {
		t.Parallel()
		if cfg.PageSeparator != "-p-" {
			t.Errorf("expected PageSeparator '-p-', got %q", cfg.PageSeparator)
		}
		if cfg.PostMarker != "post_message" {
			t.Errorf("expected PostMarker 'post_message', got %q", cfg.PostMarker)
		}
	})

	t.Run("default StoragePath lives in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.StoragePath, XDGDataDir()) {
			t.Errorf("expected StoragePath under %q, got %q", XDGDataDir(), cfg.StoragePath)
		}
		if filepath.Base(cfg.StoragePath) != DefaultDBFile {
			t.Errorf("expected file name %q, got %q", DefaultDBFile, filepath.Base(cfg.StoragePath))
		}
	})

	t.Run("robots and rate cap are off", func(t *testing.T) {
		t.Parallel()
		if cfg.RespectRobots {
			t.Error("expected RespectRobots to be false")
		}
		if cfg.MaxRequestsPerMinute != 0 {
			t.Errorf("expected MaxRequestsPerMinute 0, got %d", cfg.MaxRequestsPerMinute)
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected default config to be valid, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid config returns nil", func(_ *Config) {}, nil},
		{"empty archive root", func(c *Config) { c.ArchiveRoot = "" }, ErrNoArchiveRoot},
		{"relative archive root", func(c *Config) { c.ArchiveRoot = "/forums/archive" }, ErrInvalidArchiveRoot},
		{"ftp archive root", func(c *Config) { c.ArchiveRoot = "ftp://example.com/" }, ErrInvalidArchiveRoot},
		{"empty storage path", func(c *Config) { c.StoragePath = "" }, ErrNoStoragePath},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }, ErrInvalidRequestDelay},
		{"zero delay is valid", func(c *Config) { c.RequestDelay = 0 }, nil},
		{"negative category skip", func(c *Config) { c.CategorySkip = -1 }, ErrInvalidSkip},
		{"negative listing skip", func(c *Config) { c.ListingSkip = -1 }, ErrInvalidSkip},
		{"zero skip is valid", func(c *Config) { c.ListingSkip = 0 }, nil},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"negative rate", func(c *Config) { c.MaxRequestsPerMinute = -5 }, ErrInvalidRateLimit},
		{"empty separator", func(c *Config) { c.PageSeparator = "" }, ErrEmptyPageSeparator},
		{"empty post marker", func(c *Config) { c.PostMarker = "" }, ErrEmptyPostMarker},
		{"json and markdown", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"markdown only is valid", func(c *Config) { c.MarkdownReport = true }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.StoragePath = "/tmp/forum.db"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestLoadConfigFile tests loading the YAML configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		content := `archiveRoot: https://forum.example.com/archive/index.php/
storagePath: /data/forum.db
requestDelay: 250ms
categorySkip: 0
listingSkip: 5
postMarker: post_body
maxRequestsPerMinute: 30
respectRobots: true
threads:
  follow:
    - "/archive/index.php/t-*"
  ignore:
    - "*.pdf"
`
		path := filepath.Join(t.TempDir(), ".forumcrawl")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.ArchiveRoot != "https://forum.example.com/archive/index.php/" {
			t.Errorf("unexpected ArchiveRoot %q", cf.ArchiveRoot)
		}
		if cf.RequestDelay == nil || *cf.RequestDelay != 250*time.Millisecond {
			t.Errorf("expected RequestDelay 250ms, got %v", cf.RequestDelay)
		}
		if cf.CategorySkip == nil || *cf.CategorySkip != 0 {
			t.Errorf("expected explicit CategorySkip 0, got %v", cf.CategorySkip)
		}
		if len(cf.Threads.Follow) != 1 || len(cf.Threads.Ignore) != 1 {
			t.Errorf("expected one follow and one ignore pattern, got %+v", cf.Threads)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".forumcrawl")
		if err := os.WriteFile(path, []byte("archiveRoot: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFileApply tests that file values override defaults only when set.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		if cfg.CategorySkip != DefaultCategorySkip || cfg.RequestDelay != DefaultRequestDelay {
			t.Errorf("expected defaults to be kept, got %+v", cfg)
		}
	})

	t.Run("explicit zero values override", func(t *testing.T) {
		t.Parallel()

		zero := 0
		noDelay := time.Duration(0)
		cfg := NewConfig()
		(&File{CategorySkip: &zero, RequestDelay: &noDelay}).Apply(cfg)

		if cfg.CategorySkip != 0 {
			t.Errorf("expected CategorySkip 0, got %d", cfg.CategorySkip)
		}
		if cfg.RequestDelay != 0 {
			t.Errorf("expected RequestDelay 0, got %v", cfg.RequestDelay)
		}
	})

	t.Run("patterns and strings override", func(t *testing.T) {
		t.Parallel()

		robots := true
		cfg := NewConfig()
		(&File{
			ArchiveRoot:   "https://other.example.com/archive/",
			PageSeparator: "/page",
			RespectRobots: &robots,
			Threads:       LinkPatterns{Follow: []string{"/t-*"}, Ignore: []string{"*.pdf"}},
		}).Apply(cfg)

		if cfg.ArchiveRoot != "https://other.example.com/archive/" {
			t.Errorf("unexpected ArchiveRoot %q", cfg.ArchiveRoot)
		}
		if cfg.PageSeparator != "/page" {
			t.Errorf("unexpected PageSeparator %q", cfg.PageSeparator)
		}
		if !cfg.RespectRobots {
			t.Error("expected RespectRobots to be true")
		}
		if !slices.Equal(cfg.ThreadFollowPatterns, []string{"/t-*"}) {
			t.Errorf("unexpected follow patterns %v", cfg.ThreadFollowPatterns)
		}
		if !slices.Equal(cfg.ThreadIgnorePatterns, []string{"*.pdf"}) {
			t.Errorf("unexpected ignore patterns %v", cfg.ThreadIgnorePatterns)
		}
	})
}

// TestFindConfigFile tests config file discovery with explicit paths.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}

func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}
