package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Browse     BrowseConfig     `toml:"browse"`
	Attributes AttributesConfig `toml:"attributes"`
	Scan       ScanConfig       `toml:"scan"`
	Log        LogConfig        `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// BrowseConfig contains defaults for browse operations.
type BrowseConfig struct {
	DefaultCount int  `toml:"default_count"`
	MaxCount     int  `toml:"max_count"`
	History      bool `toml:"history"`
}

// AttributesConfig tunes the filesystem attribute provider.
type AttributesConfig struct {
	CacheTTL     Duration `toml:"cache_ttl"`
	ThumbnailDir string   `toml:"thumbnail_dir"`
}

// ScanConfig contains defaults for library scans.
type ScanConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
	Hidden    bool    `toml:"hidden"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] decoded from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate rejects values the browser cannot work with.
func (c *Config) Validate() error {
	if c.Browse.DefaultCount == 0 {
		return fmt.Errorf("%w: browse.default_count must be non-zero", ErrInvalidConfig)
	}
	if c.Browse.MaxCount < 0 {
		return fmt.Errorf("%w: browse.max_count must be >= 0", ErrInvalidConfig)
	}
	if c.Attributes.CacheTTL.Duration < 0 {
		return fmt.Errorf("%w: attributes.cache_ttl must be >= 0", ErrInvalidConfig)
	}
	if c.Scan.Workers < 0 || c.Scan.RateLimit < 0 {
		return fmt.Errorf("%w: scan.workers and scan.rate_limit must be >= 0", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
