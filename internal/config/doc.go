// Package config provides configuration structures and utilities for forumcrawl.
// It defines the crawl entry point, storage location, politeness settings and
// link selection policy, together with the optional YAML configuration file.
package config
