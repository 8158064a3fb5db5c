package crawler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/forumcrawl/internal/model"
)

var (
	// ErrArchiveUnavailable is returned by Crawler.Run when the archive root
	// cannot be fetched or parsed. It is the only run-fatal failure.
	ErrArchiveUnavailable = errors.New("archive root unavailable")

	// ErrParse marks a page body that could not be parsed as HTML.
	ErrParse = errors.New("failed to parse page")

	// ErrEmptyListing is the stop reason of a Paginator whose last fetched
	// page contained no listing items.
	ErrEmptyListing = errors.New("listing page has no items")

	// ErrBodyTooLarge is wrapped by a FetchError when a response body
	// exceeds the fetcher's size limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrDisallowed is wrapped by a FetchError when robots.txt forbids the URL.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// FailureKind classifies why a fetch failed.
type FailureKind int

const (
	// FailureTransport is a connection, DNS, TLS or timeout error.
	FailureTransport FailureKind = iota

	// FailureStatus is any response whose status is not 200 OK.
	FailureStatus

	// FailureBody is an error while reading the response body.
	FailureBody

	// FailureDisallowed is a URL refused by robots.txt before any request.
	FailureDisallowed
)

// String returns the short tag used in logs.
func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureStatus:
		return "status"
	case FailureBody:
		return "body"
	case FailureDisallowed:
		return "disallowed"
	default:
		return "unknown"
	}
}

// FetchError is the typed failure returned by a Fetcher.
// StatusCode is set only for FailureStatus.
type FetchError struct {
	URL        string
	Kind       FailureKind
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return "fetch " + e.URL + ": unexpected status " + strconv.Itoa(e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a page whose body could not be parsed.
// It matches ErrParse with errors.Is.
type ParseError struct {
	URL  string
	Role model.Role
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page %s: %v", e.Role, e.URL, e.Err)
}

// Unwrap returns the underlying parser error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
