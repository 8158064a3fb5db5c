package model

import (
	"io"
	"testing"
)

// TestPageIsHTML tests the IsHTML method.
func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/html", true},
		{"text/html; charset=ISO-8859-1", true},
		{"TEXT/HTML", true},
		{"application/xhtml+xml", true},
		{"", true},
		{"application/json", false},
		{"image/png", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()

			page := &Page{ContentType: tt.contentType}
			if got := page.IsHTML(); got != tt.want {
				t.Errorf("IsHTML() for %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

// TestPageReader tests that Reader returns the full body.
func TestPageReader(t *testing.T) {
	t.Parallel()

	page := &Page{Body: []byte("<html></html>")}

	data, err := io.ReadAll(page.Reader())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("expected body to round trip, got %q", string(data))
	}
}
