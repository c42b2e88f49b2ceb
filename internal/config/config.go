// Package config provides configuration management for calsift.
// It supports YAML and TOML configuration files, environment variables,
// and sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/calsift/internal/holiday"
	"github.com/klauern/calsift/internal/util"
)

// Config represents the complete calsift configuration.
type Config struct {
	// Holiday configures Japanese holiday data fetching and caching
	Holiday HolidayConfig `yaml:"holiday" toml:"holiday"`

	// Compare configures default comparison behavior
	Compare CompareConfig `yaml:"compare" toml:"compare"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`

	// Google configures Google Calendar access
	Google GoogleConfig `yaml:"google" toml:"google"`
}

// HolidayConfig holds holiday data settings.
type HolidayConfig struct {
	// URL is the holiday CSV endpoint
	URL string `yaml:"url" toml:"url"`
	// CacheLocation is the sqlite cache database path
	CacheLocation string `yaml:"cache_location" toml:"cache_location"`
	// RefreshTTL is how long cached holiday data stays fresh
	RefreshTTL time.Duration `yaml:"refresh_ttl" toml:"refresh_ttl"`
	// ExcludeSundays drops Sunday holidays from generated calendars
	ExcludeSundays bool `yaml:"exclude_sundays" toml:"exclude_sundays"`
}

// CompareConfig holds comparison settings.
type CompareConfig struct {
	// Workers is the worker count for batch comparisons
	Workers int `yaml:"workers" toml:"workers"`
	// RateLimit caps comparisons per second in batch mode (0 = unlimited)
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
	// ExpandWindowDays bounds recurrence expansion around today
	ExpandWindowDays int `yaml:"expand_window_days" toml:"expand_window_days"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (text, json, yaml, csv)
	Format string `yaml:"format" toml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// GoogleConfig holds Google Calendar settings.
type GoogleConfig struct {
	// CredentialsFile is the OAuth client credentials JSON path
	CredentialsFile string `yaml:"credentials_file" toml:"credentials_file"`
	// TokenFile is where the OAuth token is stored after login
	TokenFile string `yaml:"token_file" toml:"token_file"`
	// CalendarID is the calendar to fetch ("primary" when empty)
	CalendarID string `yaml:"calendar_id" toml:"calendar_id"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Holiday: HolidayConfig{
			URL:            holiday.CabinetOfficeURL,
			CacheLocation:  util.HolidayCachePath(),
			RefreshTTL:     holiday.CacheTTL,
			ExcludeSundays: false,
		},
		Compare: CompareConfig{
			Workers:          4,
			RateLimit:        0,
			ExpandWindowDays: 365,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   "auto",
			Verbose: false,
		},
		Google: GoogleConfig{
			CredentialsFile: filepath.Join(util.ConfigPath(), "google-credentials.json"),
			TokenFile:       filepath.Join(util.ConfigPath(), "google-token.json"),
			CalendarID:      "primary",
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults with environment overrides
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. The format is
// chosen by extension: .toml is parsed as TOML, everything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern CALSIFT_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Holiday settings
	if v := os.Getenv("CALSIFT_HOLIDAY_URL"); v != "" {
		c.Holiday.URL = v
	}
	if v := os.Getenv("CALSIFT_HOLIDAY_CACHE_LOCATION"); v != "" {
		c.Holiday.CacheLocation = v
	}
	if v := os.Getenv("CALSIFT_HOLIDAY_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Holiday.RefreshTTL = d
		}
	}
	if v := os.Getenv("CALSIFT_HOLIDAY_EXCLUDE_SUNDAYS"); v != "" {
		c.Holiday.ExcludeSundays = parseBool(v)
	}

	// Compare settings
	if v := os.Getenv("CALSIFT_COMPARE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Compare.Workers = n
		}
	}
	if v := os.Getenv("CALSIFT_COMPARE_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Compare.RateLimit = f
		}
	}
	if v := os.Getenv("CALSIFT_COMPARE_EXPAND_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Compare.ExpandWindowDays = n
		}
	}

	// Output settings
	if v := os.Getenv("CALSIFT_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("CALSIFT_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("CALSIFT_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}

	// Google settings
	if v := os.Getenv("CALSIFT_GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Google.CredentialsFile = v
	}
	if v := os.Getenv("CALSIFT_GOOGLE_TOKEN_FILE"); v != "" {
		c.Google.TokenFile = v
	}
	if v := os.Getenv("CALSIFT_GOOGLE_CALENDAR_ID"); v != "" {
		c.Google.CalendarID = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
