// Package log builds the application's slog logger.
//
// Site configs inject cookies and headers into requests, and stylesheet
// URLs sometimes carry signed query strings. RedactingHandler wraps any
// slog.Handler and masks such values before they reach the output:
//   - attributes whose key names a credential (cookie, authorization, token)
//   - values that look like bearer/basic credentials or JWTs
//   - user info passwords and signed query parameters inside logged URLs
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Verbose: true})
//	slog.SetDefault(logger)
package log
