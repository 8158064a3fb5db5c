package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/forumcrawl/internal/model"
)

// MarkdownWriter outputs results as Markdown built with nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteStats outputs the run summary.
func (w *MarkdownWriter) WriteStats(stats *model.RunStats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Forum Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Archive", "`" + stats.ArchiveRoot + "`"},
			{"Started", stats.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", stats.Duration().String()},
			{"Status", status(stats)},
		},
	})
	md.PlainText("")

	md.H2("Categories")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Found", strconv.Itoa(stats.CategoriesFound)},
			{"Processed", strconv.Itoa(stats.CategoriesProcessed)},
			{"Skipped", strconv.Itoa(stats.CategoriesSkipped)},
			{"Listing pages", strconv.Itoa(stats.ListingPages)},
		},
	})
	md.PlainText("")

	md.H2("Threads")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Persisted", strconv.Itoa(stats.ThreadsPersisted)},
			{"Responses persisted", strconv.Itoa(stats.ResponsesPersisted)},
			{"Empty", strconv.Itoa(stats.ThreadsEmpty)},
			{"Skipped", strconv.Itoa(stats.ThreadsSkipped)},
			{"Persist failures", strconv.Itoa(stats.PersistFailures)},
			{"**Visited**", "**" + strconv.Itoa(stats.ThreadsVisited()) + "**"},
		},
	})
	md.PlainText("")

	if stats.ThreadsVisited() > 0 {
		w.writePieChart(md, stats)
	}
	w.writeAlert(md, stats)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, stats *model.RunStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Thread Outcomes"),
		piechart.WithShowData(true),
	)

	outcomes := []struct {
		label string
		count int
	}{
		{"Persisted", stats.ThreadsPersisted},
		{"Empty", stats.ThreadsEmpty},
		{"Skipped", stats.ThreadsSkipped},
		{"Persist failures", stats.PersistFailures},
	}
	for _, o := range outcomes {
		if o.count > 0 {
			chart.LabelAndIntValue(o.label, uint64(o.count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, stats *model.RunStats) {
	switch {
	case stats.Cancelled:
		md.Cautionf("The crawl was cancelled. %d thread(s) were stored before it stopped.", stats.ThreadsPersisted)
	case stats.PersistFailures > 0:
		md.Warningf("%d thread(s) could not be stored.", stats.PersistFailures)
	case stats.CategoriesSkipped > 0 || stats.ThreadsSkipped > 0:
		md.Importantf("Skipped after fetch failures: %d categories, %d threads.",
			stats.CategoriesSkipped, stats.ThreadsSkipped)
	case stats.ThreadsPersisted == 0:
		md.Note("No threads were stored.")
	default:
		md.Tip("Every visited thread was stored.")
	}
	md.PlainText("")
}

// WriteThreads outputs each stored thread as a section.
func (w *MarkdownWriter) WriteThreads(threads []model.PersistedThread) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Forum Threads")
	md.PlainText("")

	if len(threads) == 0 {
		md.PlainText("No threads stored.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(threads))
	for i, t := range threads {
		rows[i] = []string{
			strconv.FormatInt(t.ID, 10),
			truncateString(oneLine(t.Question), 60),
			strconv.Itoa(len(t.Responses)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Question", "Responses"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, t := range threads {
		md.H2("Thread #" + strconv.FormatInt(t.ID, 10))
		md.PlainText("")
		md.PlainText(t.Question)
		md.PlainText("")
		for i, r := range t.ResponseTexts() {
			md.PlainTextf("**Response %d**", i+1)
			md.PlainText("")
			md.PlainText(r)
			md.PlainText("")
		}
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [forumcrawl](https://github.com/nao1215/forumcrawl)*")
}
