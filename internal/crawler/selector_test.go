package crawler

import (
	"slices"
	"testing"
)

func TestSkipLeading(t *testing.T) {
	t.Parallel()

	links := []string{"a", "b", "c", "d"}

	if got := SkipLeading(1).Select(links); !slices.Equal(got, []string{"b", "c", "d"}) {
		t.Errorf("unexpected result: %v", got)
	}
	if got := SkipLeading(0).Select(links); !slices.Equal(got, links) {
		t.Errorf("expected all links, got %v", got)
	}
	if got := SkipLeading(4).Select(links); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}

	got := SkipLeading(2).Select(links)
	got[0] = "changed"
	if links[2] != "c" {
		t.Error("selector must not alias its input")
	}
}

func TestMatchPatterns(t *testing.T) {
	t.Parallel()

	links := []string{
		"http://forum.test/archive/index.php/t-1.html",
		"/archive/index.php/f-2.html",
		"t-3.html",
		"/archive/index.php/t-4.html?s=abc",
		"/help.pdf",
	}

	t.Run("follow only", func(t *testing.T) {
		t.Parallel()

		got := MatchPatterns([]string{"t-*.html"}, nil).Select(links)
		want := []string{links[0], links[2], links[3]}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("ignore wins over follow", func(t *testing.T) {
		t.Parallel()

		got := MatchPatterns([]string{"/archive/*"}, []string{"*f-*.html"}).Select(links)
		want := []string{links[0], links[3]}
		if !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("no patterns keeps everything", func(t *testing.T) {
		t.Parallel()

		if got := MatchPatterns(nil, nil).Select(links); !slices.Equal(got, links) {
			t.Errorf("expected %v, got %v", links, got)
		}
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	links := append(chromeLinks(3), "/t-1.html", "/f-2.html", "/t-3.html")
	got := Chain(SkipLeading(3), nil, MatchPatterns([]string{"t-*.html"}, nil)).Select(links)
	want := []string{"/t-1.html", "/t-3.html"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "/archive/*", path: "/archive", want: true},
		{pattern: "/archive/*", path: "/archive/index.php", want: true},
		{pattern: "/archive/*", path: "/forums/x", want: false},
		{pattern: "*.pdf", path: "/docs/file.pdf", want: true},
		{pattern: "*.pdf", path: "/docs/file.html", want: false},
		{pattern: "/archive/index.php/t-*", path: "/archive/index.php/t-99.html", want: true},
		{pattern: "t-?.html", path: "/x/t-1.html", want: true},
		{pattern: "t-?.html", path: "/x/t-10.html", want: false},
		{pattern: "[", path: "/x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			if got := matchPattern(tt.pattern, tt.path); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	base := "http://forum.test/archive/index.php/f-2.html"

	tests := []struct {
		name string
		href string
		want string
	}{
		{name: "relative", href: "t-5.html", want: "http://forum.test/archive/index.php/t-5.html"},
		{name: "root relative", href: "/archive/index.php/t-6.html", want: "http://forum.test/archive/index.php/t-6.html"},
		{name: "absolute", href: "https://other.test/x", want: "https://other.test/x"},
		{name: "fragment only", href: "#", want: ""},
		{name: "javascript", href: "javascript:void(0)", want: ""},
		{name: "mailto", href: "MAILTO:admin@forum.test", want: ""},
		{name: "blank", href: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveURL(base, tt.href); got != tt.want {
				t.Errorf("resolveURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
