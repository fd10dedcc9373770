package cache

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultStaleAfter is the default entry time-to-live.
const DefaultStaleAfter = 7 * 24 * time.Hour

// Config holds store configuration.
type Config struct {
	// Name is the logical cache name the backing file is derived from.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Dir is the directory holding cache files.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// StaleAfter is the entry time-to-live. Entries older than this are
	// treated as absent on read and evicted.
	StaleAfter time.Duration `yaml:"stale_after" mapstructure:"stale_after"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.StaleAfter == 0 {
		c.StaleAfter = DefaultStaleAfter
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cache: name is required")
	}
	if c.StaleAfter < 0 {
		return fmt.Errorf("cache: stale_after must not be negative")
	}
	return nil
}

// filePath derives the backing file for a scope name.
func filePath(dir, scope string) string {
	return filepath.Join(dir, "."+scope+".rereplay.json")
}
