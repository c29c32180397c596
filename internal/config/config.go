// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultPort is the port the API listens on when none is configured.
const DefaultPort = 8000

// Config represents the application configuration. Values can come from a
// JSON file, environment variables or CLI flags; all fields are optional.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// External services
	GeminiAPIKey       string `json:"gemini_api_key,omitempty"`       // Gemini API key, empty disables LLM features
	ResumeParserAPIKey string `json:"resumeparser_api_key,omitempty"` // ResumeParser.app API key
	ResumeParserURL    string `json:"resumeparser_url,omitempty"`     // Override for the ResumeParser endpoint

	// LaTeX compilation
	PdflatexPath        string `json:"pdflatex_path,omitempty"`         // Explicit pdflatex executable
	LatexTimeoutSeconds int    `json:"latex_timeout_seconds,omitempty"` // Per-pass compile timeout

	// Data
	JobsCSV string `json:"jobs_csv,omitempty"` // External job dataset replacing the embedded one

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// FromEnv builds a Config from environment variables. Unset variables
// leave the zero value so the result can serve as merge defaults.
func FromEnv() Config {
	cfg := Config{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		ResumeParserAPIKey: os.Getenv("RESUMEPARSER_API_KEY"),
		ResumeParserURL:    os.Getenv("RESUMEPARSER_URL"),
		PdflatexPath:       os.Getenv("PDFLATEX_PATH"),
		JobsCSV:            os.Getenv("JOBS_CSV"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if seconds, err := strconv.Atoi(os.Getenv("LATEX_TIMEOUT_SECONDS")); err == nil {
		cfg.LatexTimeoutSeconds = seconds
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
// Required fields are not checked here since several features degrade
// gracefully without their keys.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.LatexTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'latex_timeout_seconds' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.JobsCSV != "" {
		if _, err := os.Stat(c.JobsCSV); os.IsNotExist(err) {
			return fmt.Errorf("config error: jobs CSV file not found: %s", c.JobsCSV)
		}
	}
	if c.PdflatexPath != "" {
		if _, err := os.Stat(c.PdflatexPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: pdflatex executable not found: %s", c.PdflatexPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to layer CLI flags over a config file over environment
// variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.ResumeParserAPIKey == "" {
		result.ResumeParserAPIKey = defaults.ResumeParserAPIKey
	}
	if result.ResumeParserURL == "" {
		result.ResumeParserURL = defaults.ResumeParserURL
	}
	if result.PdflatexPath == "" {
		result.PdflatexPath = defaults.PdflatexPath
	}
	if result.JobsCSV == "" {
		result.JobsCSV = defaults.JobsCSV
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.LatexTimeoutSeconds == 0 {
		result.LatexTimeoutSeconds = defaults.LatexTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LatexTimeout converts the configured timeout into a duration. Zero
// means the caller should use its own default.
func (c *Config) LatexTimeout() time.Duration {
	return time.Duration(c.LatexTimeoutSeconds) * time.Second
}
