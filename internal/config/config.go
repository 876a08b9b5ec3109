// Package config loads the kmsgrab configuration. All of it is optional;
// the defaults capture from /dev/dri as raw dumps.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Format selects the output writer.
type Format string

const (
	FormatRaw Format = "raw"
	FormatPNG Format = "png"
)

// Config holds the tool configuration. The device directory is threaded
// explicitly through the device locator; there is no process-wide path
// state.
type Config struct {
	// DeviceDir is the directory probed for card<N> nodes.
	DeviceDir string `yaml:"device_dir"`
	// Format is the output format: raw or png.
	Format Format `yaml:"format"`
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// ValidationError reports which config field failed validation.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func DefaultConfig() *Config {
	return &Config{
		DeviceDir: "/dev/dri",
		Format:    FormatRaw,
		LogLevel:  "info",
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kmsgrab", "config.yaml"), nil
}

// Load reads the config from the standard location. A missing file yields
// the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the config file at path. Fields absent
// from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if c.DeviceDir == "" {
		return &ValidationError{Path: "device_dir", Err: fmt.Errorf("device_dir is required")}
	}
	switch c.Format {
	case FormatRaw, FormatPNG:
	default:
		return &ValidationError{Path: "format", Err: fmt.Errorf("format must be one of: raw, png")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
