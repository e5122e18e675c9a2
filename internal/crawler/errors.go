package crawler

import "errors"

// Fetch errors.
var (
	// ErrFetchFailed is returned when the analyzed page cannot be retrieved
	// at all. The transport error is wrapped.
	ErrFetchFailed = errors.New("failed to fetch the website")

	// ErrInvalidURL is returned for URLs that are not http(s) or have no host.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidProxyAddress is returned when the proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrIgnored is recorded for stylesheets that match an ignore pattern.
	ErrIgnored = errors.New("URL matches an ignore pattern")

	// ErrStylesheetStatus is recorded for stylesheets served with a non-2xx
	// status.
	ErrStylesheetStatus = errors.New("stylesheet returned an error status")

	// ErrNotStylesheet is recorded for stylesheet URLs that answered with HTML.
	ErrNotStylesheet = errors.New("response is not a stylesheet")
)
