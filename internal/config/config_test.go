package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"goldenhash/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantHistory := filepath.Join(tempHome, ".local", "share", "goldenhash", "history.db")
	if cfg.Paths.HistoryDB != wantHistory {
		t.Fatalf("unexpected history db: got %q want %q", cfg.Paths.HistoryDB, wantHistory)
	}
	if !filepath.IsAbs(cfg.Paths.FixturesRoot) {
		t.Fatalf("expected absolute fixtures root, got %q", cfg.Paths.FixturesRoot)
	}
	if !strings.HasSuffix(filepath.ToSlash(cfg.Paths.ManifestPath), "tests/native_golden/golden.json") {
		t.Fatalf("unexpected manifest path: %q", cfg.Paths.ManifestPath)
	}
	if cfg.Scan.AllowSalvage {
		t.Fatal("expected salvage disabled by default")
	}
	if cfg.Scan.Workers <= 0 {
		t.Fatalf("expected positive worker default, got %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Tooling.Generator != "goldenhash" {
		t.Fatalf("unexpected generator: %q", cfg.Tooling.Generator)
	}
}

func TestLoadCustomConfigNormalizesValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "goldenhash.toml")

	custom := config.Default()
	custom.Paths.FixturesRoot = filepath.Join(dir, "fixtures")
	custom.Scan.AllowSalvage = true
	custom.Scan.Workers = 1000
	custom.Scan.AudioExtensions = []string{"WAV", " .wave ", ".wav"}
	custom.Scan.LogExtensions = nil
	custom.Scan.Include = []string{" ", "renders/**"}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " Debug "

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s, got %s (exists=%v)", path, resolved, exists)
	}
	if !cfg.Scan.AllowSalvage {
		t.Fatal("expected salvage enabled")
	}
	if cfg.Scan.Workers != 64 {
		t.Fatalf("expected workers clamped to 64, got %d", cfg.Scan.Workers)
	}
	if got := strings.Join(cfg.Scan.AudioExtensions, ","); got != ".wav,.wave" {
		t.Fatalf("unexpected audio extensions: %s", got)
	}
	if got := strings.Join(cfg.Scan.LogExtensions, ","); got != ".txt,.log" {
		t.Fatalf("expected default log extensions, got %s", got)
	}
	if got := strings.Join(cfg.Scan.Include, ","); got != "renders/**" {
		t.Fatalf("unexpected include patterns: %s", got)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadHonoursEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	manifest := filepath.Join(t.TempDir(), "golden.json")
	t.Setenv("GOLDENHASH_FIXTURES_ROOT", root)
	t.Setenv("GOLDENHASH_MANIFEST", manifest)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.FixturesRoot != root {
		t.Fatalf("fixtures root = %q, want %q", cfg.Paths.FixturesRoot, root)
	}
	if cfg.Paths.ManifestPath != manifest {
		t.Fatalf("manifest path = %q, want %q", cfg.Paths.ManifestPath, manifest)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "invalid include glob",
			mutate: func(c *config.Config) { c.Scan.Include = []string{"[unterminated"} },
			want:   "scan.include",
		},
		{
			name:   "overlapping extensions",
			mutate: func(c *config.Config) { c.Scan.LogExtensions = []string{".wav"} },
			want:   "both an audio and a log extension",
		},
		{
			name:   "unknown level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
			want:   "logging.level",
		},
		{
			name:   "zero workers",
			mutate: func(c *config.Config) { c.Scan.Workers = 0 },
			want:   "scan.workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load: exists=%v err=%v", exists, err)
	}
}
