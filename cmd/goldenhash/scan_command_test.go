package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"goldenhash/internal/fingerprint"
	"goldenhash/internal/manifest"
	"goldenhash/internal/testsupport"
)

func loadManifest(t *testing.T, path string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.NewStore(path, nil).Load()
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m == nil {
		t.Fatalf("manifest %s not written", path)
	}
	return m
}

func TestScanDryRunLeavesManifestUntouched(t *testing.T) {
	env := setupCLITestEnv(t)
	payload := testsupport.Ramp(64)
	env.writeFixture(t, "drums/kick.wav", testsupport.PCM16(2, 48000, payload).Bytes())
	env.writeFixture(t, "render.log", []byte("frame 1\nframe 2\n"))

	out, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "kick")
	requireContains(t, out, "render")
	requireContains(t, out, fingerprint.Hex(payload))
	requireContains(t, out, "48000 Hz stereo, 16 frames")
	requireContains(t, out, "16 bytes, 2 lines")
	requireContains(t, out, "Dry run")

	if _, err := os.Stat(env.cfg.Paths.ManifestPath); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote manifest: %v", err)
	}
}

func TestScanWritePreservesNotesAcrossRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeFixture(t, "kick.wav", testsupport.PCM16(1, 44100, testsupport.Ramp(32)).Bytes())
	env.writeFixture(t, "snare.wav", testsupport.PCM16(1, 44100, testsupport.Ramp(48)).Bytes())

	if _, _, err := runCLI(t, []string{"scan", "--write", "--note", "kick= classic 808 "}, env.configPath); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	first := loadManifest(t, env.cfg.Paths.ManifestPath)
	kick, ok := first.Lookup("kick")
	if !ok || kick.Notes != "classic 808" {
		t.Fatalf("expected trimmed override note, got %+v", kick)
	}
	if first.GeneratedAt == nil {
		t.Fatal("expected generated_at_utc to be stamped")
	}

	// Second run without overrides keeps the note and keeps a removed fixture.
	if err := os.Remove(filepath.Join(env.cfg.Paths.FixturesRoot, "snare.wav")); err != nil {
		t.Fatalf("remove snare: %v", err)
	}
	if _, _, err := runCLI(t, []string{"scan", "--write", "--backup"}, env.configPath); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	second := loadManifest(t, env.cfg.Paths.ManifestPath)
	if kick, _ := second.Lookup("kick"); kick.Notes != "classic 808" {
		t.Fatalf("notes lost across regeneration: %+v", kick)
	}
	if _, ok := second.Lookup("snare"); !ok {
		t.Fatal("stale fixture was pruned")
	}
	if got := second.Names(); len(got) != 2 || got[0] != "kick" || got[1] != "snare" {
		t.Fatalf("unexpected fixture order %v", got)
	}
	if _, err := os.Stat(env.cfg.Paths.ManifestPath + ".bak"); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}

func TestScanJSONMatchesPersistedEncoding(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeFixture(t, "tone.wav", testsupport.PCM16(1, 48000, testsupport.Ramp(16)).Bytes())

	out, _, err := runCLI(t, []string{"scan", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("scan --json: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	for _, key := range []string{"generated_at_utc", "fixtures", "tooling"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing %q in %s", key, out)
		}
	}
	var fixtures []map[string]any
	if err := json.Unmarshal(payload["fixtures"], &fixtures); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	if len(fixtures) != 1 || fixtures[0]["name"] != "tone" || fixtures[0]["channel_layout"] != "mono" {
		t.Fatalf("unexpected fixtures %v", fixtures)
	}
	if fixtures[0]["wav_path"] != "fixtures/tone.wav" {
		t.Fatalf("expected wav_path relative to the working directory, got %v", fixtures[0]["wav_path"])
	}
}

func TestScanRejectsMalformedNotes(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, note := range []string{"kick", "=text", "  =text"} {
		if _, _, err := runCLI(t, []string{"scan", "--note", note}, env.configPath); err == nil {
			t.Fatalf("expected --note %q to be rejected", note)
		}
	}
}

func TestScanStrictFailureAndSalvage(t *testing.T) {
	env := setupCLITestEnv(t)
	clean := testsupport.PCM16(2, 48000, testsupport.Ramp(64)).Bytes()
	env.writeFixture(t, "broken.wav", testsupport.PutUint32(clean, 16, 0x7fff0000))
	env.writeFixture(t, "fine.wav", clean)

	out, stderr, err := runCLI(t, []string{"scan", "--write"}, env.configPath)
	if err == nil {
		t.Fatal("expected strict scan to fail")
	}
	requireContains(t, out, "[error]")
	requireContains(t, stderr, "fixture failed")
	requireContains(t, stderr, "--allow-salvage")
	requireContains(t, out, "broken")
	written := loadManifest(t, env.cfg.Paths.ManifestPath)
	if _, ok := written.Lookup("broken"); ok {
		t.Fatal("failed fixture must not be recorded")
	}
	if _, ok := written.Lookup("fine"); !ok {
		t.Fatal("sibling fixture should still be recorded")
	}

	out, _, err = runCLI(t, []string{"scan", "--allow-salvage"}, env.configPath)
	if err != nil {
		t.Fatalf("salvage scan: %v\n%s", err, out)
	}
	requireNotContains(t, out, "[error]")
}

func TestScanFilterAndExplicitFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeFixture(t, "kick.wav", testsupport.PCM16(1, 48000, testsupport.Ramp(8)).Bytes())
	logPath := env.writeFixture(t, "build.log", []byte("ok\n"))

	out, _, err := runCLI(t, []string{"scan", "--filter", "logs"}, env.configPath)
	if err != nil {
		t.Fatalf("filtered scan: %v", err)
	}
	requireContains(t, out, "build")
	requireNotContains(t, out, "kick")

	t.Setenv(filterEnv, "kick")
	out, _, err = runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("env filtered scan: %v", err)
	}
	requireContains(t, out, "kick")
	requireNotContains(t, out, "build")

	t.Setenv(filterEnv, "")
	out, _, err = runCLI(t, []string{"scan", logPath}, env.configPath)
	if err != nil {
		t.Fatalf("explicit scan: %v", err)
	}
	requireContains(t, out, "build")
	requireNotContains(t, out, "kick")
}

func TestParseNotes(t *testing.T) {
	notes, err := parseNotes([]string{"kick=a=b", " snare =", "hat= open "})
	if err != nil {
		t.Fatalf("parseNotes: %v", err)
	}
	want := map[string]string{"kick": "a=b", "snare": "", "hat": "open"}
	if len(notes) != len(want) {
		t.Fatalf("got %v, want %v", notes, want)
	}
	for name, text := range want {
		if notes[name] != text {
			t.Fatalf("notes[%q] = %q, want %q", name, notes[name], text)
		}
	}
	if notes, err := parseNotes(nil); err != nil || notes != nil {
		t.Fatalf("parseNotes(nil) = %v, %v", notes, err)
	}
}
