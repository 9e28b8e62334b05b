package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMainDocURL is the root of the Python 3 documentation.
	DefaultMainDocURL = "https://docs.python.org/3/"

	// DefaultPEPIndexURL is the root of the proposal index.
	DefaultPEPIndexURL = "https://peps.python.org/"

	// DefaultTimeout is the timeout for a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultArchiveSuffix is the suffix of the archive the download mode fetches.
	DefaultArchiveSuffix = "pdf-a4.zip"

	// AppName is the application name used for XDG directory paths.
	AppName = "docscan"

	// DefaultUserAgent identifies docscan in HTTP requests.
	DefaultUserAgent = "docscan/1.0 (+https://github.com/nao1215/docscan)"

	// DefaultLogMaxSizeMB is the size in megabytes after which the log file rotates.
	DefaultLogMaxSizeMB = 1

	// DefaultLogMaxBackups is the number of rotated log files to keep.
	DefaultLogMaxBackups = 5
)

// Output modes accepted by --output. An empty output prints rows as plain text.
const (
	OutputPlain    = ""
	OutputPretty   = "pretty"
	OutputFile     = "file"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// Fetch failure policies for proposal detail pages.
const (
	// FetchFailureAbort fails the pep mode when a detail page cannot be fetched.
	FetchFailureAbort = "abort"

	// FetchFailureSkip records the proposal with an unknown status and continues.
	FetchFailureSkip = "skip"
)

// Config holds all configuration options for docscan.
// It is populated from CLI flags and the optional config file and passed
// through the application explicitly rather than kept in global state.
type Config struct {
	// Mode is the report mode to run (whats-new, latest-versions, download, pep).
	Mode string

	// MainDocURL is the documentation root used by whats-new, latest-versions
	// and download.
	MainDocURL string

	// PEPIndexURL is the proposal index root used by pep.
	PEPIndexURL string

	// Timeout is the timeout for each HTTP request.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// ArchiveSuffix selects the link the download mode follows.
	ArchiveSuffix string

	// ClearCache empties the response cache before the run.
	ClearCache bool

	// Output selects the renderer. See the Output* constants.
	Output string

	// FetchFailurePolicy decides what pep does when a detail page is unreachable.
	FetchFailurePolicy string

	// Statuses overrides entries of the legend code table of the pep mode.
	// Codes not listed keep their built-in sets.
	Statuses map[string][]string

	// DefaultStatuses overrides the expected set for empty or unknown codes.
	DefaultStatuses []string

	// Verbose enables debug logging.
	Verbose bool

	// BaseDir holds the downloads, results and logs directories.
	BaseDir string

	// CacheDir holds the SQLite response cache.
	CacheDir string

	// MetricsFile is the path of the Prometheus textfile written after the run.
	// Empty disables metrics output.
	MetricsFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .docscan is searched in the current and home directories.
	ConfigFilePath string

	// LogMaxSizeMB is the size at which the log file rotates.
	LogMaxSizeMB int

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MainDocURL:         DefaultMainDocURL,
		PEPIndexURL:        DefaultPEPIndexURL,
		Timeout:            DefaultTimeout,
		UserAgent:          DefaultUserAgent,
		ArchiveSuffix:      DefaultArchiveSuffix,
		FetchFailurePolicy: FetchFailureAbort,
		BaseDir:            XDGDataDir(),
		CacheDir:           XDGCacheDir(),
		LogMaxSizeMB:       DefaultLogMaxSizeMB,
		LogMaxBackups:      DefaultLogMaxBackups,
	}
}

// XDGDataDir returns the XDG data directory for docscan.
// On Linux: ~/.local/share/docscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for docscan.
// On Linux: ~/.cache/docscan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// DownloadsDir returns the directory archives are saved to.
func (c *Config) DownloadsDir() string {
	return filepath.Join(c.BaseDir, "downloads")
}

// ResultsDir returns the directory CSV results are written to.
func (c *Config) ResultsDir() string {
	return filepath.Join(c.BaseDir, "results")
}

// LogsDir returns the directory the rotating log file lives in.
func (c *Config) LogsDir() string {
	return filepath.Join(c.BaseDir, "logs")
}

// LogFile returns the path of the rotating log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogsDir(), AppName+".log")
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MainDocURL == "" || c.PEPIndexURL == "" {
		return ErrMissingURL
	}

	switch c.Output {
	case OutputPlain, OutputPretty, OutputFile, OutputMarkdown, OutputJSON:
	default:
		return ErrInvalidOutput
	}

	switch c.FetchFailurePolicy {
	case FetchFailureAbort, FetchFailureSkip:
	default:
		return ErrInvalidFetchFailurePolicy
	}

	if c.ArchiveSuffix == "" {
		return ErrEmptyArchiveSuffix
	}

	for _, set := range c.Statuses {
		if len(set) == 0 {
			return ErrEmptyStatusSet
		}
	}
	if c.DefaultStatuses != nil && len(c.DefaultStatuses) == 0 {
		return ErrEmptyStatusSet
	}

	if c.BaseDir == "" {
		return ErrMissingBaseDir
	}

	return nil
}

// Apply copies the values set in the configuration file onto c.
// Zero values in the file leave the corresponding field untouched.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	if f.MainDocURL != "" {
		c.MainDocURL = f.MainDocURL
	}
	if f.PEPIndexURL != "" {
		c.PEPIndexURL = f.PEPIndexURL
	}
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.ArchiveSuffix != "" {
		c.ArchiveSuffix = f.ArchiveSuffix
	}
	if f.OnFetchError != "" {
		c.FetchFailurePolicy = f.OnFetchError
	}
	if f.BaseDir != "" {
		c.BaseDir = f.BaseDir
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
	if len(f.Statuses) > 0 {
		c.Statuses = make(map[string][]string, len(f.Statuses))
		for code, set := range f.Statuses {
			c.Statuses[code] = append([]string(nil), set...)
		}
	}
	if f.DefaultStatuses != nil {
		c.DefaultStatuses = append([]string{}, f.DefaultStatuses...)
	}
}
