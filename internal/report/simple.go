package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/forumcrawl/internal/model"
)

// questionPreviewLength bounds the question text shown per thread when the
// writer is not verbose.
const questionPreviewLength = 72

// SimpleWriter outputs plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose prints every response in full.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose prints full thread texts instead of a preview.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteStats outputs the run summary.
func (w *SimpleWriter) WriteStats(stats *model.RunStats) (int, error) {
	var sb strings.Builder

	writeRule(&sb, "=")
	sb.WriteString("                       FORUMCRAWL RUN SUMMARY\n")
	writeRule(&sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Archive:   %s\n", stats.ArchiveRoot)
	fmt.Fprintf(&sb, "Started:   %s\n", stats.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:  %s\n", stats.Duration().Round(time.Millisecond))
	fmt.Fprintf(&sb, "Status:    %s\n", status(stats))
	sb.WriteString("\n")

	writeSection(&sb, "CATEGORIES")
	fmt.Fprintf(&sb, "  Found:      %d\n", stats.CategoriesFound)
	fmt.Fprintf(&sb, "  Processed:  %d\n", stats.CategoriesProcessed)
	fmt.Fprintf(&sb, "  Skipped:    %d\n", stats.CategoriesSkipped)
	fmt.Fprintf(&sb, "  Pages:      %d\n", stats.ListingPages)
	sb.WriteString("\n")

	writeSection(&sb, "THREADS")
	fmt.Fprintf(&sb, "  Persisted:  %d (%d responses)\n", stats.ThreadsPersisted, stats.ResponsesPersisted)
	fmt.Fprintf(&sb, "  Empty:      %d\n", stats.ThreadsEmpty)
	fmt.Fprintf(&sb, "  Skipped:    %d\n", stats.ThreadsSkipped)
	fmt.Fprintf(&sb, "  Failed:     %d\n", stats.PersistFailures)
	sb.WriteString("\n")

	writeRule(&sb, "=")

	return io.WriteString(w.output, sb.String())
}

// WriteThreads lists stored threads.
func (w *SimpleWriter) WriteThreads(threads []model.PersistedThread) (int, error) {
	var sb strings.Builder

	if len(threads) == 0 {
		sb.WriteString("No threads stored.\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, t := range threads {
		if !w.verbose {
			fmt.Fprintf(&sb, "#%-6d %s (%d responses)\n",
				t.ID, truncateString(oneLine(t.Question), questionPreviewLength), len(t.Responses))
			continue
		}

		writeRule(&sb, "-")
		fmt.Fprintf(&sb, "Thread #%d\n\n", t.ID)
		sb.WriteString(indent(t.Question, "  "))
		sb.WriteString("\n")
		for i, r := range t.ResponseTexts() {
			fmt.Fprintf(&sb, "\n  [%d]\n", i+1)
			sb.WriteString(indent(r, "    "))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d thread(s)\n", len(threads))

	return io.WriteString(w.output, sb.String())
}

func writeRule(sb *strings.Builder, char string) {
	sb.WriteString(strings.Repeat(char, 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	writeRule(sb, "-")
	sb.WriteString(title)
	sb.WriteString("\n")
	writeRule(sb, "-")
}

// oneLine collapses all whitespace runs into single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
