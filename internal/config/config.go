package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a whole analysis of one target, including the
	// page fetch and every stylesheet fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the number of targets analyzed at once and
	// the number of stylesheets fetched at once per target.
	DefaultConcurrency = 4

	// DefaultMaxColors is the palette size used for image analysis.
	DefaultMaxColors = 12

	// DefaultMethod is the image quantization method.
	DefaultMethod = "median-cut"

	// AppName is the application name used for XDG directory paths.
	AppName = "colorcarbon"

	// DefaultUserAgent identifies colorcarbon in HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; colorcarbon/1.0; +https://github.com/nao1215/colorcarbon)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds all configuration options for colorcarbon.
// This struct is populated from CLI flags and passed through the
// application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., FetchConfig, ReportConfig). The number of options is manageable.
type Config struct {
	// Timeout bounds one analysis. Cancellation marks the analysis as
	// timed out.
	Timeout time.Duration

	// Concurrency is the number of targets analyzed in parallel.
	Concurrency int

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// Empty means direct connections.
	ProxyAddress string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// IncludeStyleElements makes <style> element text count as inline CSS.
	// When false only style attributes and linked stylesheets are scanned.
	IncludeStyleElements bool

	// MaxColors is the number of dominant colors extracted from an image.
	MaxColors int

	// Method is the image quantization method: "median-cut" or "kmeans".
	Method string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .colorcarbon in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of URLs or image paths to analyze.
	Targets []string

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/colorcarbon on Linux).
	DBDir string

	// SaveToDB indicates whether successful reports are saved to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		MaxColors:   DefaultMaxColors,
		Method:      DefaultMethod,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for colorcarbon.
// On Linux: ~/.local/share/colorcarbon
// On macOS: ~/Library/Application Support/colorcarbon
// On Windows: %LOCALAPPDATA%\colorcarbon
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for colorcarbon.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate once after CLI parsing, before any
// analysis begins, to fail fast with a clear message.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxColors < 1 {
		return ErrInvalidMaxColors
	}

	if c.Method != "" && c.Method != "median-cut" && c.Method != "kmeans" {
		return ErrUnknownMethod
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
