package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".docscan"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .docscan configuration file.
// Every field is optional.
type File struct {
	// MainDocURL overrides the documentation root.
	MainDocURL string `yaml:"mainDocURL,omitempty"`

	// PEPIndexURL overrides the proposal index root.
	PEPIndexURL string `yaml:"pepIndexURL,omitempty"`

	// Timeout overrides the per-request timeout, e.g. "45s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ArchiveSuffix overrides the archive the download mode fetches.
	ArchiveSuffix string `yaml:"archiveSuffix,omitempty"`

	// OnFetchError is the fetch failure policy for proposal pages (abort or skip).
	OnFetchError string `yaml:"onFetchError,omitempty"`

	// BaseDir overrides the directory holding downloads, results and logs.
	BaseDir string `yaml:"baseDir,omitempty"`

	// CacheDir overrides the directory holding the response cache.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// Statuses overrides legend codes. Keys are status letters.
	Statuses map[string][]string `yaml:"statuses,omitempty"`

	// DefaultStatuses replaces the expected set for empty or unknown codes.
	DefaultStatuses []string `yaml:"defaultStatuses,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .docscan in the current directory
// 3. Look for .docscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
