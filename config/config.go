// Package config binds the process-wide cache configuration. It is loaded
// once at startup and read-only afterwards; there is no reload.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLocalTTL      = time.Minute
	DefaultRemoteTTL     = time.Hour
	DefaultRemoveTimeout = 5 * time.Second
)

// Duration wraps time.Duration so YAML can carry human-readable values
// ("300ms", "30s", "1h30m", per time.ParseDuration). An empty string
// unmarshals to zero.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", s, err)
	}
	*d = Duration(dd)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Config is the cache configuration surface: tier TTL defaults, the remote
// endpoint, and the remove-gate bound.
//
//	namespace: "app:prod:user"
//	local_ttl: "1m"
//	remote_ttl: "1h"
//	remote_addr: "redis://cache:6379/0"
//	remove_timeout: "5s"
type Config struct {
	Namespace     string   `yaml:"namespace"`
	LocalTTL      Duration `yaml:"local_ttl"`
	RemoteTTL     Duration `yaml:"remote_ttl"`
	RemoteAddr    string   `yaml:"remote_addr"`
	RemoveTimeout Duration `yaml:"remove_timeout"`
}

// Load reads and validates a YAML config file, filling defaults for unset
// durations.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills unset durations with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.LocalTTL == 0 {
		c.LocalTTL = Duration(DefaultLocalTTL)
	}
	if c.RemoteTTL == 0 {
		c.RemoteTTL = Duration(DefaultRemoteTTL)
	}
	if c.RemoveTimeout == 0 {
		c.RemoveTimeout = Duration(DefaultRemoveTimeout)
	}
}

func (c *Config) Validate() error {
	if c.LocalTTL < 0 {
		return fmt.Errorf("config: local_ttl must not be negative")
	}
	if c.RemoteTTL < 0 {
		return fmt.Errorf("config: remote_ttl must not be negative")
	}
	if c.RemoveTimeout < 0 {
		return fmt.Errorf("config: remove_timeout must not be negative")
	}
	return nil
}
