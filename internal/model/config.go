package model

import "time"

// Config holds the tool configuration
type Config struct {
	Cache  CacheConfig  `yaml:"cache" json:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" json:"output" mapstructure:"output"`
}

// CacheConfig controls analysis memoization
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	Format        string `yaml:"format" json:"format" mapstructure:"format"` // json or yaml
	IncludeFooter bool   `yaml:"include_footer" json:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Output: OutputConfig{
			Verbose:       false,
			Format:        "json",
			IncludeFooter: true,
		},
	}
}
