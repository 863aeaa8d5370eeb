package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version     int               `yaml:"version"`
	Database    DatabaseConfig    `yaml:"database"`
	Units       UnitsConfig       `yaml:"units"`
	Engine      EngineConfig      `yaml:"engine"`
	Calibration map[string]string `yaml:"calibration,omitempty"`
	Recent      []string          `yaml:"recent,omitempty"`
}

// DatabaseConfig holds model library settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// UnitsConfig holds the unit system new projects start with
type UnitsConfig struct {
	Default string `yaml:"default"` // flow unit name, e.g. GPM or LPS
}

// EngineConfig holds solver invocation settings
type EngineConfig struct {
	Command     string   `yaml:"command,omitempty"` // empty selects the built-in stub
	ScratchRoot string   `yaml:"scratch_root,omitempty"`
	KeepScratch bool     `yaml:"keep_scratch,omitempty"`
	Timeout     Duration `yaml:"timeout"`
}

// DefaultEngineConfig returns the solver defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Timeout: Duration(10 * time.Minute),
	}
}

// RememberRecent prepends path to the recent-file list, deduplicated and
// capped at ten entries.
func (c *Config) RememberRecent(path string) {
	out := []string{path}
	for _, p := range c.Recent {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.Recent = out
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the wrapped value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
