package config

import (
	"github.com/kbukum/rereplay/cache"
	"github.com/kbukum/rereplay/logger"
	"github.com/kbukum/rereplay/replay"
)

// Config is the top-level configuration for an application embedding
// rereplay. Projects extend it by embedding it in their own config structs.
type Config struct {
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	Cache   cache.Config  `yaml:"cache" mapstructure:"cache"`
	Replay  replay.Config `yaml:"replay" mapstructure:"replay"`
}

// ApplyDefaults applies default values to all sections. The cache name
// falls back to the replay cache name so a single setting scopes both.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Replay.ApplyDefaults()
	if c.Cache.Name == "" {
		c.Cache.Name = c.Replay.CacheName
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = c.Replay.CacheDir
	}
	c.Cache.ApplyDefaults()
}

// Validate validates all sections.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Replay.Validate()
}
