package main

import (
	"errors"
	"testing"

	"goldenhash/internal/testsupport"
)

func TestHistoryRecordsScanRuns(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())
	env.writeFixture(t, "kick.wav", testsupport.PCM16(1, 48000, testsupport.Ramp(8)).Bytes())

	for i := 0; i < 3; i++ {
		if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
			t.Fatalf("scan %d: %v", i, err)
		}
	}

	out, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "scan")

	out, _, err = runCLI(t, []string{"history", "fixture", "kick"}, env.configPath)
	if err != nil {
		t.Fatalf("history fixture: %v", err)
	}
	requireContains(t, out, "audio")

	out, _, err = runCLI(t, []string{"history", "prune", "--keep", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 2 run(s)")

	store := testsupport.MustOpenHistory(t, env.cfg)
	runs, err := store.Recent(t.Context(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run after prune, got %d", len(runs))
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("expected errHistoryDisabled, got %v", err)
	}
}
