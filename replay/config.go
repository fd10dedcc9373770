package replay

import (
	"fmt"
	"time"
)

// DefaultOnlineEnv is the environment variable consulted on every call to
// decide bypass mode.
const DefaultOnlineEnv = "REREPLAY_ONLINE"

// Config holds replayer configuration.
type Config struct {
	// CacheName is the logical cache name the backing file is derived from.
	CacheName string `yaml:"cache_name" mapstructure:"cache_name" validate:"required"`
	// CacheDir is the directory holding cache files.
	CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
	// StaleAfter is the recorded-entry time-to-live. Zero means the cache
	// package default (7 days).
	StaleAfter time.Duration `yaml:"stale_after" mapstructure:"stale_after"`
	// OnlineEnv names the environment toggle for bypass mode. The variable
	// is read fresh on every intercepted call.
	OnlineEnv string `yaml:"online_env" mapstructure:"online_env"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.CacheName == "" {
		c.CacheName = "default"
	}
	if c.CacheDir == "" {
		c.CacheDir = "."
	}
	if c.OnlineEnv == "" {
		c.OnlineEnv = DefaultOnlineEnv
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.StaleAfter < 0 {
		return fmt.Errorf("replay: stale_after must not be negative")
	}
	return nil
}
