package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/forumcrawl/internal/model"
)

// Fetcher retrieves one page per call.
// Implementations return *FetchError for every failure and never retry.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, role model.Role) (*model.Page, error)
}

// HTTPFetcher is a Fetcher backed by an *http.Client.
// After every call, successful or not, it waits for the configured delay
// before returning, so a sequential caller can never exceed one request
// per delay.
type HTTPFetcher struct {
	// client performs the requests. Its Timeout bounds each request.
	client *http.Client

	// delay is the pause applied after every request.
	delay time.Duration

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// limiter caps the overall request rate when set. It may be shared
	// between fetchers.
	limiter *rate.Limiter

	// robots answers robots.txt queries when set.
	robots *robotsCache
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithDelay sets the pause applied after each request.
func WithDelay(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.delay = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
// Values of zero or less keep the default.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLimiter sets a rate limiter waited on before each request.
func WithLimiter(l *rate.Limiter) FetcherOption {
	return func(f *HTTPFetcher) {
		f.limiter = l
	}
}

// WithRequestsPerMinute caps the request rate with a new limiter.
// Zero or less leaves the rate uncapped.
func WithRequestsPerMinute(n int) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.limiter = NewLimiter(n)
		}
	}
}

// WithRobots enables robots.txt checks. robots.txt is fetched once per host.
func WithRobots(enabled bool) FetcherOption {
	return func(f *HTTPFetcher) {
		if enabled {
			f.robots = newRobotsCache()
		} else {
			f.robots = nil
		}
	}
}

// NewLimiter returns a limiter allowing n requests per minute with no burst.
func NewLimiter(n int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// NewHTTPFetcher creates a new HTTPFetcher with the given HTTP client.
// A nil client uses http.DefaultClient.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &HTTPFetcher{
		client:      client,
		delay:       1 * time.Second,
		userAgent:   "forumcrawl/1.0",
		maxBodySize: model.MaxPageSize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Delay returns the configured post-request delay.
func (f *HTTPFetcher) Delay() time.Duration {
	return f.delay
}

// Fetch issues one GET request and returns the page on 200 OK.
// The delay is applied before Fetch returns, whatever the outcome.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, role model.Role) (*model.Page, error) {
	defer f.pause(ctx)
	return f.fetch(ctx, rawURL, role)
}

// fetch performs the request without the trailing delay.
func (f *HTTPFetcher) fetch(ctx context.Context, rawURL string, role model.Role) (*model.Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: FailureTransport, Err: err}
	}

	if f.robots != nil && !f.robots.allowed(ctx, f.client, u, f.userAgent) {
		return nil, &FetchError{URL: rawURL, Kind: FailureDisallowed, Err: ErrDisallowed}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: rawURL, Kind: FailureTransport, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: FailureTransport, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		return nil, &FetchError{URL: rawURL, Kind: FailureStatus, StatusCode: resp.StatusCode}
	}

	// One byte past the limit tells a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: FailureBody, Err: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &FetchError{URL: rawURL, Kind: FailureBody, Err: ErrBodyTooLarge}
	}

	// Links on the page are relative to where redirects ended up.
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &model.Page{
		URL:         finalURL,
		Role:        role,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// pause waits for the politeness delay or until ctx is done.
func (f *HTTPFetcher) pause(ctx context.Context) {
	if f.delay <= 0 {
		return
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
