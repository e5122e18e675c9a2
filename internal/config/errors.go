package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() while still getting human-readable messages.
var (
	// ErrNoTarget is returned when no URL or image path is given.
	ErrNoTarget = errors.New("no target specified: provide at least one URL or image path")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxColors is returned when the palette size is below one.
	ErrInvalidMaxColors = errors.New("invalid max colors: must be at least 1")

	// ErrUnknownMethod is returned for a quantization method other than
	// median-cut or kmeans.
	ErrUnknownMethod = errors.New("unknown method: use median-cut or kmeans")

	// ErrNoDBDir is returned when saving is enabled without a directory.
	ErrNoDBDir = errors.New("database directory is empty")
)
