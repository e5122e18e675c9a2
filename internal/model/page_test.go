package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests the ComputeHash method.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA256 hash of raw content", func(t *testing.T) {
		t.Parallel()

		page := &Page{Raw: []byte("Hello, World!")}
		page.ComputeHash()

		expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
		if page.Hash != expected {
			t.Errorf("got %q, expected %q", page.Hash, expected)
		}
	})

	t.Run("empty content produces empty hash", func(t *testing.T) {
		t.Parallel()

		page := &Page{}
		page.ComputeHash()

		if page.Hash != "" {
			t.Errorf("expected empty hash, got %q", page.Hash)
		}
	})
}

// TestPageContentType tests HTML and CSS detection.
func TestPageContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		contentType string
		html        bool
		css         bool
	}{
		{"text/html", true, false},
		{"text/html; charset=utf-8", true, false},
		{"TEXT/HTML", true, false},
		{"application/xhtml+xml", true, false},
		{"text/css", false, true},
		{"text/css;charset=UTF-8", false, true},
		{"", false, true},
		{"text/htmlx", false, false},
		{"application/json", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			t.Parallel()
			p := &Page{ContentType: tt.contentType}
			if got := p.IsHTML(); got != tt.html {
				t.Errorf("IsHTML() = %v, want %v", got, tt.html)
			}
			if got := p.IsCSS(); got != tt.css {
				t.Errorf("IsCSS() = %v, want %v", got, tt.css)
			}
		})
	}
}

// TestPageOK tests the status check.
func TestPageOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{199, false},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		if got := (&Page{StatusCode: tt.status}).OK(); got != tt.want {
			t.Errorf("OK() for status %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// TestPageTruncateRaw tests the size limit.
func TestPageTruncateRaw(t *testing.T) {
	t.Parallel()

	p := &Page{Raw: []byte(strings.Repeat("a", MaxPageSize+10))}
	p.TruncateRaw()
	if len(p.Raw) != MaxPageSize {
		t.Errorf("expected %d bytes, got %d", MaxPageSize, len(p.Raw))
	}
}
