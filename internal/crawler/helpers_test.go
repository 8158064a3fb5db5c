package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/nao1215/forumcrawl/internal/model"
)

// mapFetcher serves pages from memory. Unknown URLs fail with 404.
type mapFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	requests []string
}

func newMapFetcher(pages map[string]string) *mapFetcher {
	return &mapFetcher{pages: pages}
}

func (f *mapFetcher) Fetch(_ context.Context, rawURL string, role model.Role) (*model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &FetchError{URL: rawURL, Kind: FailureStatus, StatusCode: http.StatusNotFound}
	}
	return &model.Page{
		URL:        rawURL,
		Role:       role,
		StatusCode: http.StatusOK,
		Body:       []byte(body),
	}, nil
}

func (f *mapFetcher) count(rawURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, r := range f.requests {
		if r == rawURL {
			n++
		}
	}
	return n
}

// memoryStore records persisted threads.
type memoryStore struct {
	mu      sync.Mutex
	threads []model.Thread
	err     error
}

func (s *memoryStore) Persist(_ context.Context, question string, responses []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	s.threads = append(s.threads, model.Thread{Question: question, Responses: responses})
	return int64(len(s.threads)), nil
}

// chromeLinks returns n navigation hrefs.
func chromeLinks(n int) []string {
	links := make([]string, n)
	for i := range links {
		links[i] = fmt.Sprintf("/nav/%d.html", i)
	}
	return links
}

// listingHTML renders a page with one li per href.
func listingHTML(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, href := range hrefs {
		fmt.Fprintf(&b, `<li><a href="%s">link</a></li>`, href)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

// threadHTML renders a thread page with one marked div per post.
func threadHTML(posts ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="posts">`)
	for i, post := range posts {
		fmt.Fprintf(&b, `<div id="post_message_%d">%s</div>`, i+1, post)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func testPage(rawURL, body string) *model.Page {
	return &model.Page{URL: rawURL, StatusCode: http.StatusOK, Body: []byte(body)}
}
