// Package crawler collects the CSS a web page renders with.
//
// # Components
//
//   - Parser: walks the HTML once and returns style attributes, linked
//     stylesheet URLs and, when enabled, <style> element text
//   - Fetcher: retrieves the page and, concurrently, its stylesheets
//   - NewHTTPClient: builds the http.Client, optionally behind a SOCKS5
//     proxy and with site cookies or headers injected into requests for
//     the site host only
//
// # Failure handling
//
// The root page is required: FetchPage wraps network, DNS and timeout
// failures in ErrFetchFailed. A page that answers with a non-2xx status is
// still analyzed. Stylesheets are optional: each one
// that fails is logged and reported in its StylesheetFetch, and the rest
// are still used.
//
// # Usage
//
//	client, err := crawler.NewHTTPClient(30*time.Second)
//	fetcher := crawler.NewFetcher(client, crawler.WithConcurrency(4))
//	page, err := fetcher.FetchPage(ctx, "https://example.com")
package crawler
