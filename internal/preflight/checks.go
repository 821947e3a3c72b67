package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"goldenhash/internal/config"
	"goldenhash/internal/history"
	"goldenhash/internal/manifest"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if write {
		mode, label = unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckManifest verifies that an existing manifest parses. A manifest that
// has not been written yet passes.
func CheckManifest(path string) Result {
	const name = "Manifest"
	m, err := manifest.NewStore(path, nil).Load()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if m == nil {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not written yet)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d fixtures)", path, len(m.Fixtures))}
}

// CheckHistory verifies that the run ledger opens and answers a query.
func CheckHistory(ctx context.Context, cfg *config.Config) Result {
	const name = "History ledger"
	store, err := history.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	runs, err := store.Recent(ctx, 1)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	detail := "no runs recorded"
	if len(runs) > 0 {
		detail = "last run " + runs[0].ID
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", cfg.Paths.HistoryDB, detail)}
}

func manifestDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ManifestPath)
}
