package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Page is a fetched HTTP resource: the analyzed HTML page or one of its
// stylesheets.
type Page struct {
	// URL is the final URL of the resource.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the Content-Type header value.
	ContentType string `json:"content_type"`

	// Title is the <title> text of HTML pages.
	Title string `json:"title,omitempty"`

	// Raw is the response body, limited to MaxPageSize.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 of Raw.
	Hash string `json:"hash"`
}

// MaxPageSize is the maximum size of a stored response body.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// ComputeHash sets Hash from Raw. Empty bodies have an empty hash.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// OK reports whether the response had a 2xx status.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode <= 299
}

// IsHTML reports whether the content type is HTML.
func (p *Page) IsHTML() bool {
	return hasMediaType(p.ContentType, "text/html") ||
		hasMediaType(p.ContentType, "application/xhtml+xml")
}

// IsCSS reports whether the content type is a stylesheet.
// Servers that omit the content type are given the benefit of the doubt.
func (p *Page) IsCSS() bool {
	return p.ContentType == "" || hasMediaType(p.ContentType, "text/css")
}

// Body returns Raw as text.
func (p *Page) Body() string {
	return string(p.Raw)
}

// TruncateRaw enforces MaxPageSize on Raw.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}

func hasMediaType(contentType, mediaType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == mediaType || strings.HasPrefix(ct, mediaType+";")
}
