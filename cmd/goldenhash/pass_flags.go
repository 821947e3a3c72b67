package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"goldenhash/internal/config"
	"goldenhash/internal/fixture"
	"goldenhash/internal/golden"
	"goldenhash/internal/manifest"
	"goldenhash/internal/textutil"
)

const filterEnv = "GOLDENHASH_FILTER"

// passFlags are the discovery and parsing flags shared by scan and verify.
type passFlags struct {
	root         string
	manifestPath string
	filter       string
	allowSalvage bool
	strict       bool
	workers      int
	jsonOutput   bool
}

func (f *passFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "Fixtures directory (overrides paths.fixtures_root)")
	cmd.Flags().StringVar(&f.manifestPath, "manifest", "", "Manifest file (overrides paths.manifest_path)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Fixture filter tokens (kind names or name/path substrings); defaults to $"+filterEnv)
	cmd.Flags().BoolVar(&f.allowSalvage, "allow-salvage", false, "Recover fingerprints from malformed WAV containers")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Disable salvage even when scan.allow_salvage is set")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent fixture workers (overrides scan.workers)")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.MarkFlagsMutuallyExclusive("allow-salvage", "strict")
}

func (f *passFlags) salvage(cfg *config.Config) bool {
	switch {
	case f.strict:
		return false
	case f.allowSalvage:
		return true
	default:
		return cfg.Scan.AllowSalvage
	}
}

func (f *passFlags) parsedFilter() textutil.Filter {
	raw := strings.TrimSpace(f.filter)
	if raw == "" {
		raw = os.Getenv(filterEnv)
	}
	return textutil.ParseFilter(raw)
}

func (f *passFlags) resolveRoot(cfg *config.Config) (string, error) {
	if strings.TrimSpace(f.root) == "" {
		return cfg.Paths.FixturesRoot, nil
	}
	root, err := config.ExpandPath(strings.TrimSpace(f.root))
	if err != nil {
		return "", fmt.Errorf("resolve --root: %w", err)
	}
	return root, nil
}

func (f *passFlags) resolveManifest(cfg *config.Config) (string, error) {
	if strings.TrimSpace(f.manifestPath) == "" {
		return cfg.Paths.ManifestPath, nil
	}
	path, err := config.ExpandPath(strings.TrimSpace(f.manifestPath))
	if err != nil {
		return "", fmt.Errorf("resolve --manifest: %w", err)
	}
	return path, nil
}

// request assembles a golden.Request from configuration and flags. Positional
// args replace directory discovery.
func (f *passFlags) request(cfg *config.Config, args []string) (golden.Request, error) {
	root, err := f.resolveRoot(cfg)
	if err != nil {
		return golden.Request{}, err
	}
	workers := cfg.Scan.Workers
	if f.workers > 0 {
		workers = f.workers
	}
	baseDir, err := os.Getwd()
	if err != nil {
		return golden.Request{}, fmt.Errorf("resolve working directory: %w", err)
	}
	files := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return golden.Request{}, fmt.Errorf("resolve %q: %w", arg, err)
		}
		files = append(files, path)
	}
	return golden.Request{
		Root:         root,
		Files:        files,
		Selector:     fixture.SelectorFromConfig(cfg.Scan, f.parsedFilter()),
		Identity:     manifest.Identity{Hash: cfg.Tooling.HashDescription, Generator: cfg.Tooling.Generator},
		AllowSalvage: f.salvage(cfg),
		Workers:      workers,
		BaseDir:      baseDir,
	}, nil
}

// parseNotes turns repeated name=text flags into an override map. The text
// may be empty, which clears the fixture's notes.
func parseNotes(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	notes := make(map[string]string, len(values))
	for _, value := range values {
		name, text, ok := strings.Cut(value, "=")
		if !ok {
			return nil, fmt.Errorf("--note %q: expected name=text", value)
		}
		name = textutil.NormalizeName(name)
		if name == "" {
			return nil, errors.New("--note: fixture name must not be empty")
		}
		notes[name] = strings.TrimSpace(text)
	}
	return notes, nil
}

func failureMessage(failure *fixture.Failure) string {
	if failure.Err != nil {
		return failure.Err.Error()
	}
	return string(failure.Kind)
}
