package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/forumcrawl/internal/config"
	"github.com/nao1215/forumcrawl/internal/database"
	"github.com/nao1215/forumcrawl/internal/report"
)

// seedDatabase writes n threads with two responses each.
func seedDatabase(t *testing.T, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "forum.db")
	db, err := database.Open(path, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for i := range n {
		q := "Question " + string(rune('A'+i))
		if _, err := db.Persist(context.Background(), q, []string{"first reply", "second reply"}); err != nil {
			t.Fatalf("failed to persist: %v", err)
		}
	}
	return path
}

func TestRunExport(t *testing.T) {
	t.Parallel()

	t.Run("text listing", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = seedDatabase(t, 3)

		var out bytes.Buffer
		if err := runExport(context.Background(), cfg, exportQuery{}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Question C (2 responses)") {
			t.Errorf("unexpected output:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "3 thread(s)") {
			t.Errorf("expected thread count, got:\n%s", out.String())
		}
	})

	t.Run("json with limit", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = seedDatabase(t, 3)
		cfg.JSONReport = true

		var out bytes.Buffer
		if err := runExport(context.Background(), cfg, exportQuery{limit: 2}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc report.ThreadsDocument
		if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Count != 2 {
			t.Errorf("expected 2 threads, got %d", doc.Count)
		}
		if doc.Threads[0].Question != "Question A" {
			t.Errorf("expected insertion order, got %q", doc.Threads[0].Question)
		}
	})

	t.Run("markdown file", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = seedDatabase(t, 1)
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "out", "threads.md")

		if err := runExport(context.Background(), cfg, exportQuery{}, &bytes.Buffer{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "## Thread #1") {
			t.Errorf("unexpected markdown:\n%s", data)
		}
	})

	t.Run("single thread by id", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = seedDatabase(t, 3)

		var out bytes.Buffer
		if err := runExport(context.Background(), cfg, exportQuery{id: 2, limit: 1}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out.String(), "Question B (2 responses)") {
			t.Errorf("expected thread 2, got:\n%s", out.String())
		}
		if strings.Contains(out.String(), "Question A") {
			t.Errorf("expected only thread 2, got:\n%s", out.String())
		}
	})

	t.Run("unknown thread id", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = seedDatabase(t, 1)

		err := runExport(context.Background(), cfg, exportQuery{id: 99}, &bytes.Buffer{})
		if !errors.Is(err, errThreadNotFound) {
			t.Errorf("expected errThreadNotFound, got %v", err)
		}
	})

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.StoragePath = filepath.Join(t.TempDir(), "missing.db")

		err := runExport(context.Background(), cfg, exportQuery{}, &bytes.Buffer{})
		if !errors.Is(err, database.ErrDatabaseNotFound) {
			t.Errorf("expected ErrDatabaseNotFound, got %v", err)
		}
		if _, statErr := os.Stat(cfg.StoragePath); !os.IsNotExist(statErr) {
			t.Error("export must not create a database")
		}
	})
}

func TestRunExportCmd(t *testing.T) {
	t.Parallel()

	path := seedDatabase(t, 2)
	configPath := filepath.Join(t.TempDir(), ".forumcrawl")
	if err := os.WriteFile(configPath, []byte("storagePath: /nonexistent/forum.db\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cmd := NewExportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", configPath, "--db", path, "--limit", "1"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "1 thread(s)") {
		t.Errorf("expected one thread, got:\n%s", out.String())
	}
}
