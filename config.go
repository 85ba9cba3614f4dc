package sprig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config tunes the compositor and its caches.
type Config struct {
	// StaticAge is the number of unchanged frames before a sprite is cached
	// as a static blit.
	StaticAge int `yaml:"static_age" toml:"static_age"`
	// CacheTTL is the number of frames an unused scaled image is kept.
	CacheTTL int `yaml:"cache_ttl" toml:"cache_ttl"`
	// CacheSweepInterval is the number of frames between cache sweeps.
	CacheSweepInterval int `yaml:"cache_sweep_interval" toml:"cache_sweep_interval"`
	// Debug enables frame stats logging and extra tree checks.
	Debug bool `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		StaticAge:          DefaultStaticAge,
		CacheTTL:           DefaultCacheTTL,
		CacheSweepInterval: DefaultCacheSweepInterval,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StaticAge <= 0 {
		c.StaticAge = d.StaticAge
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.CacheSweepInterval <= 0 {
		c.CacheSweepInterval = d.CacheSweepInterval
	}
	return c
}

// LoadConfig reads a YAML or TOML config file, chosen by extension.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data, formatOf(path))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a config document. format is "yaml" or "toml". Missing
// fields keep their defaults.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	if err := decode(data, format, &cfg); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// formatOf maps a file extension to a document format.
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

func decode(data []byte, format string, v any) error {
	switch format {
	case "yaml", "yml", "":
		return yaml.Unmarshal(data, v)
	case "toml":
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
