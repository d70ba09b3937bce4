// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/outreach-forge/internal/types"
)

// Duration is a time.Duration that unmarshals from a JSON string such as "45s".
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\" or a number of seconds")
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Job     string `json:"job,omitempty"`     // Path to job description text file
	JobURL  string `json:"job_url,omitempty"` // URL to fetch the job description from
	Profile string `json:"profile,omitempty"` // Path to candidate profile text file
	Tone    string `json:"tone,omitempty"`    // professional, startup or edgy

	// Behavior
	APIKey     string   `json:"api_key,omitempty"`     // Gemini API key
	UseBrowser bool     `json:"use_browser,omitempty"` // Use headless browser for SPA job pages
	Verbose    bool     `json:"verbose,omitempty"`     // Print detailed debug information
	Timeout    Duration `json:"timeout,omitempty"`     // Bound on a single model call

	// Server
	Port int `json:"port,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required inputs are checked after merging with CLI flags, not here.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.Tone != "" {
		if _, err := types.ParseTone(c.Tone); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	for name, path := range map[string]string{"job": c.Job, "profile": c.Profile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Tone == "" {
		result.Tone = defaults.Tone
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ResolveAPIKey returns the first non-empty of flagValue, the config file value and GEMINI_API_KEY.
func (c *Config) ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c != nil && c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}
