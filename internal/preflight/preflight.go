package preflight

import (
	"context"

	"goldenhash/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional failures degrade output but do not block a scan.
	Optional bool
	Detail   string
}

// RunAll executes all applicable preflight checks for the given config.
// The history check only runs when the ledger is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	fixtures := CheckDirectoryAccess("Fixtures root", cfg.Paths.FixturesRoot, false)
	// A missing root yields an empty scan rather than an error.
	fixtures.Optional = true

	results := []Result{
		fixtures,
		CheckDirectoryAccess("Manifest directory", manifestDir(cfg), true),
		CheckManifest(cfg.Paths.ManifestPath),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, true))
	}
	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg))
	}
	return results
}

// Failed reports whether any non-optional check failed.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return true
		}
	}
	return false
}
