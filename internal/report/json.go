package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/forumcrawl/internal/model"
)

// JSONWriter outputs results as JSON for other tools.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// version is stamped on every document.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the forumcrawl version written in each document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// StatsDocument is the JSON form of a run summary.
type StatsDocument struct {
	Version string          `json:"version,omitempty"`
	Status  string          `json:"status"`
	Stats   *model.RunStats `json:"stats"`
}

// ThreadsDocument is the JSON form of a thread export.
type ThreadsDocument struct {
	Version string                  `json:"version,omitempty"`
	Count   int                     `json:"count"`
	Threads []model.PersistedThread `json:"threads"`
}

// WriteStats outputs a StatsDocument.
func (w *JSONWriter) WriteStats(stats *model.RunStats) (int, error) {
	return w.writeJSON(StatsDocument{
		Version: w.version,
		Status:  status(stats),
		Stats:   stats,
	})
}

// WriteThreads outputs a ThreadsDocument. Threads without responses have
// an empty array, never null.
func (w *JSONWriter) WriteThreads(threads []model.PersistedThread) (int, error) {
	out := make([]model.PersistedThread, len(threads))
	for i, t := range threads {
		if t.Responses == nil {
			t.Responses = []model.PersistedResponse{}
		}
		out[i] = t
	}
	return w.writeJSON(ThreadsDocument{
		Version: w.version,
		Count:   len(out),
		Threads: out,
	})
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
