// Package config loads rereplay configuration from YAML files and the
// environment. It resolves config.yml and .env files from standard
// locations, binds REREPLAY_-prefixed environment variables on top, and
// validates the result.
package config
