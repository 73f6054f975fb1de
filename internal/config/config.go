// Package config handles loading user configuration for pinyincheck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	Strictness string         `yaml:"strictness"` // strict, strict-separate-curly-quote, loose
	Dictionary string         `yaml:"dictionary"` // optional Make Me a Hanzi JSONL file
	Workers    int            `yaml:"workers"`
	Format     string         `yaml:"format"` // text or json
	Deck       DeckConfig     `yaml:"deck"`
	Overrides  OverrideConfig `yaml:"overrides"`
	Log        LogConfig      `yaml:"log"`
}

// DeckConfig names the Anki note fields to compare.
type DeckConfig struct {
	PinyinField string `yaml:"pinyin_field"`
	HanziField  string `yaml:"hanzi_field"`
}

// OverrideConfig holds per-character reading overrides.
type OverrideConfig struct {
	Mode     string              `yaml:"mode"` // extend or replace
	Readings map[string][]string `yaml:"readings"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Strictness: "strict-separate-curly-quote",
		Workers:    4,
		Format:     "text",
		Overrides:  OverrideConfig{Mode: "extend"},
		Log:        LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a configuration file on top of the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch c.Overrides.Mode {
	case "", "extend", "replace":
	default:
		return fmt.Errorf("unknown overrides mode %q", c.Overrides.Mode)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pinyincheck"), nil
}
