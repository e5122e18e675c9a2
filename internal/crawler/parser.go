package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts the CSS sources of an HTML page.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// real pages are often malformed and the tokenizer recovers the same tree a
// browser would.
type Parser struct {
	// baseURL is the page URL, used to resolve stylesheet links.
	baseURL *url.URL

	// styleElements enables collecting <style> element text.
	styleElements bool
}

// ParseResult holds everything the color analysis needs from a page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// InlineStyles holds the style attribute value of every element that
	// has one, in document order.
	InlineStyles []string

	// StyleBlocks holds the text of <style> elements. Only filled when the
	// parser was created with WithStyleElements(true).
	StyleBlocks []string

	// Stylesheets holds absolute URLs of <link rel="stylesheet"> elements,
	// in document order without duplicates.
	Stylesheets []string
}

// CSS returns the inline style text joined into one fragment, style
// blocks included.
func (r *ParseResult) CSS() []string {
	fragments := make([]string, 0, 1+len(r.StyleBlocks))
	if len(r.InlineStyles) > 0 {
		fragments = append(fragments, strings.Join(r.InlineStyles, ";"))
	}
	fragments = append(fragments, r.StyleBlocks...)
	return fragments
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStyleElements sets whether <style> element text is collected. It is
// off by default.
func WithStyleElements(enabled bool) ParserOption {
	return func(p *Parser) {
		p.styleElements = enabled
	}
}

// NewParser creates a parser for the page at baseURL.
func NewParser(baseURL string, opts ...ParserOption) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	p := &Parser{baseURL: u}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse walks the document once and collects style sources.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		InlineStyles: make([]string, 0),
		StyleBlocks:  make([]string, 0),
		Stylesheets:  make([]string, 0),
	}
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.processElement(n, result, seen)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

func (p *Parser) processElement(n *html.Node, result *ParseResult, seen map[string]bool) {
	if style, ok := lookupAttr(n, "style"); ok {
		result.InlineStyles = append(result.InlineStyles, style)
	}

	switch n.Data {
	case "title":
		if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			result.Title = strings.TrimSpace(n.FirstChild.Data)
		}

	case "style":
		if !p.styleElements {
			return
		}
		var text strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				text.WriteString(c.Data)
			}
		}
		if text.Len() > 0 {
			result.StyleBlocks = append(result.StyleBlocks, text.String())
		}

	case "link":
		if !isStylesheetLink(n) {
			return
		}
		href := p.resolveURL(getAttr(n, "href"))
		if href == "" || seen[href] {
			return
		}
		seen[href] = true
		result.Stylesheets = append(result.Stylesheets, href)
	}
}

// isStylesheetLink reports whether the rel attribute contains the
// "stylesheet" token. rel is a space separated list ("alternate stylesheet").
func isStylesheetLink(n *html.Node) bool {
	for _, rel := range strings.Fields(getAttr(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return true
		}
	}
	return false
}

// resolveURL resolves href against the page URL. Non-fetchable schemes
// resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
