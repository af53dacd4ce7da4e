package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "linkpeek"

	// DefaultTimeout bounds every individual HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is a desktop browser User-Agent. URL shorteners and
	// CDNs often serve bots a different page, or none at all.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits how much of a page body is read for keyword
	// scanning and metadata extraction.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMaxRedirects matches the redirect limit of most browsers' fetch
	// stacks closely enough for shortener chains.
	DefaultMaxRedirects = 10

	// DefaultBatchSize is the number of URLs analyzed concurrently.
	DefaultBatchSize = 10

	// DefaultListenAddress is where `linkpeek serve` listens.
	DefaultListenAddress = ":8080"

	// DefaultShutdownTimeout is how long serve waits for in-flight requests
	// after SIGINT or SIGTERM.
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = "text"
)

// Config holds all configuration options for linkpeek.
// It is populated from defaults, the config file and CLI flags, then passed
// down explicitly.
//
// Design decision: a single flat struct. The option set is small and every
// command reads most of it.
type Config struct {
	// Timeout is the per-request timeout. Each HEAD or GET gets its own.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// Empty means direct connections.
	ProxyAddress string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed per request.
	MaxRedirects int

	// BatchSize is the number of URLs analyzed concurrently by expand.
	BatchSize int

	// ListenAddress is the address the HTTP service binds to.
	ListenAddress string

	// ShutdownTimeout bounds graceful shutdown of the HTTP service.
	ShutdownTimeout time.Duration

	// LogFormat is "text" or "json".
	LogFormat string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit --config path, if any.
	ConfigFilePath string

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// ReportFile is the output file path for the report. Empty means stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of URLs to analyze.
	Targets []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		MaxRedirects:    DefaultMaxRedirects,
		BatchSize:       DefaultBatchSize,
		ListenAddress:   DefaultListenAddress,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogFormat:       DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for linkpeek.
// On Linux: ~/.config/linkpeek
// On macOS: ~/Library/Application Support/linkpeek
// On Windows: %APPDATA%\linkpeek
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// EffectiveMaxBodySize returns MaxBodySize, or the default when it is 0.
func (c *Config) EffectiveMaxBodySize() int64 {
	if c.MaxBodySize == 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}

// Validate checks the settings shared by every command and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}

	if c.ListenAddress == "" {
		return ErrEmptyListenAddress
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// ValidateTargets is Validate plus the requirement of at least one target,
// for commands that analyze URLs given on the command line.
func (c *Config) ValidateTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.Validate()
}
