package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.FixturesRoot) == "" {
		return errors.New("paths.fixtures_root must be set")
	}
	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		return errors.New("paths.manifest_path must be set")
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	for _, pattern := range c.Scan.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.include: invalid glob %q", pattern)
		}
	}
	for _, pattern := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("scan.exclude: invalid glob %q", pattern)
		}
	}
	for _, audio := range c.Scan.AudioExtensions {
		for _, log := range c.Scan.LogExtensions {
			if audio == log {
				return fmt.Errorf("extension %q cannot be both an audio and a log extension", audio)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
