// Package report renders crawl results.
//
// Every Writer can output a run summary (model.RunStats) and a thread
// export (model.PersistedThread):
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: JSON documents for other tools
//   - MarkdownWriter: Markdown with tables and a mermaid pie chart
//
// MultiWriter fans one result out to several Writers.
package report
