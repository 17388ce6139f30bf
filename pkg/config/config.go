package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for growth.
type Config struct {
	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Batch assessment settings
	Assess AssessConfig `koanf:"assess" toml:"assess"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Watch settings
	Watch WatchConfig `koanf:"watch" toml:"watch"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format    string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color     bool   `koanf:"color" toml:"color"`
	Locale    string `koanf:"locale" toml:"locale"`       // en, he
	Precision int    `koanf:"precision" toml:"precision"` // decimals for percentiles in text output
}

// AssessConfig controls batch assessment.
type AssessConfig struct {
	Workers int `koanf:"workers" toml:"workers"`
	// CrossingThreshold is the percentile change between a child's first
	// and last measurement that is reported as a percentile crossing.
	CrossingThreshold float64 `koanf:"crossing_threshold" toml:"crossing_threshold"`
	MinTrendPoints    int     `koanf:"min_trend_points" toml:"min_trend_points"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	Debounce int `koanf:"debounce" toml:"debounce"` // milliseconds
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:    "text",
			Color:     true,
			Locale:    "en",
			Precision: 1,
		},
		Assess: AssessConfig{
			Workers:           4,
			CrossingThreshold: 25,
			MinTrendPoints:    3,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".growth/cache",
			TTL:     24,
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
	}
}

// Load loads configuration from a file on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Standard config file names, searched in order.
var configNames = []string{
	"growth.toml",
	"growth.yaml",
	"growth.yml",
	"growth.json",
	".growth.toml",
	".growth.yaml",
	".growth.yml",
	".growth.json",
}

// Directories searched for config files.
var searchDirs = []string{".", ".growth"}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	if path := findConfig(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

func findConfig() string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadResult is a loaded config plus the file it came from.
// Source is empty when only defaults were used.
type LoadResult struct {
	Config *Config
	Source string
}

type loadOptions struct {
	path string
}

// LoadOption customizes LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads a specific file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads and validates configuration. Unlike LoadOrDefault, a
// broken config file is an error.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Output.Format) {
	case "text", "json", "markdown", "md", "toon":
	default:
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	switch strings.ToLower(c.Output.Locale) {
	case "en", "he":
	default:
		errs = append(errs, fmt.Errorf("output.locale: unsupported locale %q", c.Output.Locale))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 4 {
		errs = append(errs, fmt.Errorf("output.precision: must be 0-4 (got %d)", c.Output.Precision))
	}
	if c.Assess.Workers < 1 {
		errs = append(errs, fmt.Errorf("assess.workers: must be at least 1 (got %d)", c.Assess.Workers))
	}
	if c.Assess.CrossingThreshold <= 0 || c.Assess.CrossingThreshold > 100 {
		errs = append(errs, fmt.Errorf("assess.crossing_threshold: must be in (0, 100] (got %g)", c.Assess.CrossingThreshold))
	}
	if c.Assess.MinTrendPoints < 2 {
		errs = append(errs, fmt.Errorf("assess.min_trend_points: must be at least 2 (got %d)", c.Assess.MinTrendPoints))
	}
	if c.Cache.Enabled && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir: required when cache is enabled"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl: must not be negative (got %d)", c.Cache.TTL))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative (got %d)", c.Watch.Debounce))
	}

	return errors.Join(errs...)
}
