package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeTooling()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("GOLDENHASH_FIXTURES_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.FixturesRoot = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("GOLDENHASH_MANIFEST"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ManifestPath = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.FixturesRoot) == "" {
		c.Paths.FixturesRoot = defaultFixturesRoot
	}
	if c.Paths.FixturesRoot, err = expandPath(c.Paths.FixturesRoot); err != nil {
		return fmt.Errorf("paths.fixtures_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.ManifestPath) == "" {
		c.Paths.ManifestPath = defaultManifestPath
	}
	if c.Paths.ManifestPath, err = expandPath(c.Paths.ManifestPath); err != nil {
		return fmt.Errorf("paths.manifest_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = defaultWorkers()
	}
	if c.Scan.Workers > maxWorkers {
		c.Scan.Workers = maxWorkers
	}
	c.Scan.Include = normalizePatterns(c.Scan.Include)
	if len(c.Scan.Include) == 0 {
		c.Scan.Include = append([]string(nil), defaultInclude...)
	}
	c.Scan.Exclude = normalizePatterns(c.Scan.Exclude)
	c.Scan.AudioExtensions = normalizeExtensions(c.Scan.AudioExtensions, defaultAudioExtensions)
	c.Scan.LogExtensions = normalizeExtensions(c.Scan.LogExtensions, defaultLogExtensions)
}

func (c *Config) normalizeTooling() {
	c.Tooling.HashDescription = strings.TrimSpace(c.Tooling.HashDescription)
	if c.Tooling.HashDescription == "" {
		c.Tooling.HashDescription = defaultHashDescription
	}
	c.Tooling.Generator = strings.TrimSpace(c.Tooling.Generator)
	if c.Tooling.Generator == "" {
		c.Tooling.Generator = defaultGenerator
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}

func normalizeExtensions(values, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, ext := range values {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, exists := seen[ext]; exists {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	if len(out) == 0 {
		out = append(out, fallback...)
	}
	return out
}
