// Package config provides configuration management for waterworks.
//
// Configuration covers the tool's surroundings, not the model: where the
// model library database lives, which unit system new projects start
// with, how the external solver is invoked, and where calibration data
// files are registered.
//
// Config file locations (priority order):
//  1. $WATERWORKS_CONFIG
//  2. ./waterworks.yaml
//  3. $XDG_CONFIG_HOME/waterworks/config.yaml
//  4. ~/.config/waterworks/config.yaml
//  5. /etc/waterworks/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"waterworks/internal/units"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Database: DatabaseConfig{Path: "./waterworks.db"},
		Units:    UnitsConfig{Default: string(units.FlowGPM)},
		Engine:   DefaultEngineConfig(),
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Database.Path == "" {
		c.Database.Path = "./waterworks.db"
	}
	if c.Units.Default == "" || !units.FlowUnit(c.Units.Default).Valid() {
		c.Units.Default = string(units.FlowGPM)
	}
	def := DefaultEngineConfig()
	if c.Engine.Timeout == 0 {
		c.Engine.Timeout = def.Timeout
	}
}

// DefaultFlowUnit returns the configured default unit as a typed value.
func (c *Config) DefaultFlowUnit() units.FlowUnit {
	u, err := units.ParseFlowUnit(c.Units.Default)
	if err != nil {
		return units.FlowGPM
	}
	return u
}
