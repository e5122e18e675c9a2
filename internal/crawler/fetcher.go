package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/colorcarbon/internal/model"
)

// Fetcher defaults.
const (
	DefaultUserAgent   = "Mozilla/5.0 (compatible; colorcarbon/1.0; +https://github.com/nao1215/colorcarbon)"
	DefaultMaxBodySize = int64(model.MaxPageSize)
	DefaultConcurrency = 4
)

// Fetcher retrieves a page and its linked stylesheets.
type Fetcher struct {
	// client performs the requests. Proxy, cookie and header injection
	// live in its transport (see NewHTTPClient).
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits how much of each response body is read.
	maxBodySize int64

	// ignorePatterns are stylesheets to skip: URL path globs
	// ("/vendor/*", "*.min.css") or plain substrings of the URL
	// ("fonts.googleapis.com").
	ignorePatterns []string

	// concurrency is the number of stylesheets fetched in parallel.
	concurrency int

	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithIgnorePatterns sets URL patterns of stylesheets to skip.
func WithIgnorePatterns(patterns []string) FetcherOption {
	return func(f *Fetcher) {
		f.ignorePatterns = patterns
	}
}

// WithConcurrency sets how many stylesheets are fetched at once.
func WithConcurrency(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithLogger sets the logger for skipped stylesheets.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a Fetcher that uses client for all requests.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// NormalizeURL adds a missing scheme (https) and validates the result.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}

// FetchPage retrieves the page to analyze. Transport errors (network,
// DNS, timeout) are returned wrapped in ErrFetchFailed. A page served with
// a non-2xx status is still returned and analyzed; its status is kept on
// Page.StatusCode.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*model.Page, error) {
	page, err := f.get(ctx, pageURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if !page.OK() {
		f.logger.Warn("page returned an error status, analyzing its body anyway",
			"url", page.URL, "status", page.StatusCode)
	}
	return page, nil
}

// StylesheetFetch is the outcome of fetching one stylesheet.
type StylesheetFetch struct {
	URL  string
	Page *model.Page
	Err  error
}

// FetchStylesheets retrieves every URL concurrently. A failing stylesheet
// is logged and recorded in its result; it never aborts the others.
// Results are in input order.
func (f *Fetcher) FetchStylesheets(ctx context.Context, urls []string) []StylesheetFetch {
	results := make([]StylesheetFetch, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			results[i] = f.fetchStylesheet(gctx, u)
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return an error

	return results
}

func (f *Fetcher) fetchStylesheet(ctx context.Context, sheetURL string) StylesheetFetch {
	result := StylesheetFetch{URL: sheetURL}

	if !f.shouldFetch(sheetURL) {
		result.Err = ErrIgnored
		f.logger.Debug("skipping ignored stylesheet", "url", sheetURL)
		return result
	}

	page, err := f.get(ctx, sheetURL, "text/css,*/*;q=0.1")
	switch {
	case err != nil:
	case !page.OK():
		err = fmt.Errorf("%w: status %d", ErrStylesheetStatus, page.StatusCode)
	case page.IsHTML():
		err = ErrNotStylesheet
	case !page.IsCSS():
		f.logger.Debug("stylesheet has an unexpected content type",
			"url", sheetURL, "content_type", page.ContentType)
	}
	if err != nil {
		result.Err = err
		result.Page = page
		f.logger.Warn("failed to fetch stylesheet", "url", sheetURL, "error", err)
		return result
	}

	result.Page = page
	return result
}

// get performs a GET. Only transport and read failures are errors; the
// caller decides what a non-2xx status means.
func (f *Fetcher) get(ctx context.Context, target, accept string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	page := &model.Page{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         body,
	}
	page.ComputeHash()
	page.TruncateRaw()

	return page, nil
}

// shouldFetch checks the URL against the ignore patterns.
func (f *Fetcher) shouldFetch(target string) bool {
	if _, err := url.Parse(target); err != nil {
		return false
	}

	for _, pattern := range f.ignorePatterns {
		if matchPattern(pattern, target) {
			return false
		}
	}
	return true
}

// matchPattern checks if a stylesheet URL matches an ignore pattern.
//   - a pattern without glob characters matches any URL containing it,
//     so "fonts.googleapis.com" matches every stylesheet on that host
//   - "/vendor/*" matches the paths "/vendor/a.css" and "/vendor/b/c.css"
//   - "*.min.css" matches the path "/css/site.min.css"
//   - other patterns use filepath.Match against the path
func matchPattern(pattern, target string) bool {
	if pattern == "" {
		return false
	}
	if !strings.ContainsAny(pattern, "*?[") &&
		strings.Contains(strings.ToLower(target), strings.ToLower(pattern)) {
		return true
	}

	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}
	if path == "" {
		path = "/"
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if matched, err := filepath.Match(pattern, path); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}

	return false
}
