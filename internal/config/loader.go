package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Region represents a single probe target: a cloud region plus the URL of a
// small static blob hosted in it.
type Region struct {
	Name      string `yaml:"name"`
	Geography string `yaml:"geography"`
	URL       string `yaml:"url"`
	Enabled   bool   `yaml:"enabled"`
}

// Settings represents general run settings
type Settings struct {
	IntervalSeconds float64 `yaml:"interval_seconds"`
	DurationMinutes float64 `yaml:"duration_minutes"`
	RequestTimeout  string  `yaml:"request_timeout"`
	WarmupRounds    int     `yaml:"warmup_rounds"`
	TLSCompat       bool    `yaml:"tls_compat"`
	SOCKS5          string  `yaml:"socks5"`
	Parallel        bool    `yaml:"parallel"`
	Verbose         bool    `yaml:"verbose"`
}

// Config represents the entire configuration
type Config struct {
	Regions  []Region `yaml:"regions"`
	Settings Settings `yaml:"settings"`
}

// LoadConfig loads configuration from a YAML file. An empty path or a missing
// file yields the built-in region registry with default settings.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			// A config file that lists regions replaces the built-in registry.
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
			if len(fileCfg.Regions) > 0 {
				config.Regions = fileCfg.Regions
			}
			mergeSettings(&config.Settings, fileCfg.Settings)
		}
	}

	config.applyEnvOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the built-in region registry and default settings.
func DefaultConfig() *Config {
	return &Config{
		Regions:  defaultRegions(),
		Settings: defaultSettings(),
	}
}

func defaultSettings() Settings {
	return Settings{
		IntervalSeconds: 5,
		DurationMinutes: 1,
		RequestTimeout:  "10s",
		WarmupRounds:    2,
	}
}

func mergeSettings(dst *Settings, src Settings) {
	if src.IntervalSeconds > 0 {
		dst.IntervalSeconds = src.IntervalSeconds
	}
	if src.DurationMinutes > 0 {
		dst.DurationMinutes = src.DurationMinutes
	}
	if src.RequestTimeout != "" {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.WarmupRounds > 0 {
		dst.WarmupRounds = src.WarmupRounds
	}
	if src.SOCKS5 != "" {
		dst.SOCKS5 = src.SOCKS5
	}
	if src.TLSCompat {
		dst.TLSCompat = true
	}
	if src.Parallel {
		dst.Parallel = true
	}
	if src.Verbose {
		dst.Verbose = true
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("REGIONPING_INTERVAL_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Settings.IntervalSeconds = f
		}
	}
	if v := os.Getenv("REGIONPING_DURATION_MINUTES"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Settings.DurationMinutes = f
		}
	}
	if v := os.Getenv("REGIONPING_REQUEST_TIMEOUT"); v != "" {
		c.Settings.RequestTimeout = v
	}
	if v := os.Getenv("REGIONPING_SOCKS5"); v != "" {
		c.Settings.SOCKS5 = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("no regions defined")
	}

	seen := make(map[string]bool, len(c.Regions))
	for _, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("region with empty name")
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate region %q", r.Name)
		}
		seen[r.Name] = true

		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("region %q: invalid url %q", r.Name, r.URL)
		}
	}

	if c.Settings.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be > 0")
	}
	if c.Settings.DurationMinutes < 0 {
		return fmt.Errorf("duration_minutes must be >= 0")
	}
	if c.Settings.WarmupRounds < 0 {
		return fmt.Errorf("warmup_rounds must be >= 0")
	}

	timeout, err := time.ParseDuration(c.Settings.RequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("request_timeout must be > 0")
	}

	return nil
}

// EnabledRegions returns only enabled regions
func (c *Config) EnabledRegions() []Region {
	var enabled []Region
	for _, region := range c.Regions {
		if region.Enabled {
			enabled = append(enabled, region)
		}
	}
	return enabled
}

// RestrictRegions enables exactly the named regions and disables the rest.
// It returns an error when a name is not in the registry.
func (c *Config) RestrictRegions(names []string) error {
	byName := make(map[string]int, len(c.Regions))
	for i, r := range c.Regions {
		byName[r.Name] = i
		c.Regions[i].Enabled = false
	}

	for _, name := range names {
		i, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown region %q", name)
		}
		c.Regions[i].Enabled = true
	}

	return nil
}

// Interval returns the inter-round interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Settings.IntervalSeconds * float64(time.Second))
}

// Duration returns the timed collection window as a duration.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.Settings.DurationMinutes * float64(time.Minute))
}

// Timeout returns the per-request timeout. Validate guarantees it parses.
func (c *Config) Timeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Settings.RequestTimeout)
	return timeout
}
