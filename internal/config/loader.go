package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".codexcrawl"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .codexcrawl configuration file.
// Every field is optional; unset fields keep the defaults. Durations are
// written as Go duration strings ("60s", "184h").
type File struct {
	ReferenceURL    string            `yaml:"reference_url,omitempty"`
	ListingURL      string            `yaml:"listing_url,omitempty"`
	AllowList       []string          `yaml:"allow_list,omitempty"`
	TaxonomyMaxAge  *time.Duration    `yaml:"taxonomy_max_age,omitempty"`
	ListingMaxAge   *time.Duration    `yaml:"listing_max_age,omitempty"`
	PageSize        int               `yaml:"page_size,omitempty"`
	RequestDelay    *time.Duration    `yaml:"request_delay,omitempty"`
	ResultsFile     string            `yaml:"results_file,omitempty"`
	CacheDir        string            `yaml:"cache_dir,omitempty"`
	Timeout         time.Duration     `yaml:"timeout,omitempty"`
	UserAgent       string            `yaml:"user_agent,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	MaxBodySize     int64             `yaml:"max_body_size,omitempty"`
	ContinueOnError *bool             `yaml:"continue_on_error,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
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

	if cf.Headers == nil {
		cf.Headers = make(map[string]string)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. .codexcrawl in the current directory
// 3. config.yaml in the XDG config directory
// 4. .codexcrawl in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
