package report

import (
	"io"

	"github.com/nao1215/forumcrawl/internal/model"
)

// Writer renders crawl results.
type Writer interface {
	// WriteStats outputs the summary of one crawl run.
	WriteStats(stats *model.RunStats) (int, error)

	// WriteThreads outputs stored threads with their responses.
	WriteThreads(threads []model.PersistedThread) (int, error)
}

// MultiWriter writes to several Writers in order.
// The crawl command uses it to write a report file and a terminal summary
// from the same run.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteStats writes stats to every Writer and stops on the first error.
func (m *MultiWriter) WriteStats(stats *model.RunStats) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteStats(stats)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteThreads writes threads to every Writer and stops on the first error.
func (m *MultiWriter) WriteThreads(threads []model.PersistedThread) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteThreads(threads)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// status describes how a run ended.
func status(stats *model.RunStats) string {
	switch {
	case stats.Cancelled:
		return "Cancelled (partial results)"
	case stats.HasFailures():
		return "Complete with skipped items"
	default:
		return "Complete"
	}
}

// truncateString shortens s to at most maxLen runes, ending with "...".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
