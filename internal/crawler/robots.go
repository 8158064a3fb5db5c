package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsSize limits how much of a robots.txt file is read.
const maxRobotsSize = 512 * 1024

// robotsCache fetches robots.txt once per scheme and host.
// A host whose robots.txt cannot be fetched is treated as allowing everything.
type robotsCache struct {
	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

func newRobotsCache() *robotsCache {
	return &robotsCache{hosts: make(map[string]*robotstxt.RobotsData)}
}

// allowed reports whether agent may fetch u.
func (rc *robotsCache) allowed(ctx context.Context, client *http.Client, u *url.URL, agent string) bool {
	data := rc.lookup(ctx, client, u, agent)
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, agent)
}

// lookup returns the cached robots.txt of u's host, fetching it on first use.
// A result obtained under a cancelled context is not cached.
func (rc *robotsCache) lookup(ctx context.Context, client *http.Client, u *url.URL, agent string) *robotstxt.RobotsData {
	key := u.Scheme + "://" + u.Host

	rc.mu.Lock()
	data, ok := rc.hosts[key]
	rc.mu.Unlock()
	if ok {
		return data
	}

	data = fetchRobots(ctx, client, key+"/robots.txt", agent)
	if ctx.Err() != nil {
		return data
	}

	rc.mu.Lock()
	rc.hosts[key] = data
	rc.mu.Unlock()

	return data
}

// fetchRobots downloads and parses one robots.txt. It returns nil on any
// transport or parse error.
func fetchRobots(ctx context.Context, client *http.Client, robotsURL, agent string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data
}
