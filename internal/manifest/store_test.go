package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "golden.json"), nil)
	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest, got %+v", m)
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests", "native_golden", "golden.json")
	store := NewStore(path, nil)

	rec := audioRecord("kick", "14650fb0739d0383")
	rec.Notes = "classic"
	m := Merge(nil, []Record{rec}, nil, testIdentity, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := store.Save(context.Background(), m); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := loaded.Lookup("kick")
	if !ok {
		t.Fatal("kick missing after reload")
	}
	if got.Hash != rec.Hash || got.Audio == nil || got.Audio.WavPath != rec.Audio.WavPath {
		t.Fatalf("reloaded record %+v", got)
	}
	if got.Notes != "" {
		t.Fatalf("notes = %q, want empty for a fixture with no prior record", got.Notes)
	}
	if *loaded.GeneratedAt != "2026-01-02T03:04:05Z" {
		t.Fatalf("generated_at = %s", *loaded.GeneratedAt)
	}
}

func TestStoreBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(`{"fixtures":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path, nil)
	store.Backup = true

	if err := store.Save(context.Background(), &Manifest{Tooling: Tooling{Hash: "desc", Generator: "goldenhash"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(backup) != `{"fixtures":[]}` {
		t.Fatalf("backup content %q", backup)
	}
}

func TestStoreLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path, nil).Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStoreSaveNil(t *testing.T) {
	if err := NewStore(filepath.Join(t.TempDir(), "golden.json"), nil).Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil manifest")
	}
}

func TestStoreKeepsUnknownTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	legacy := `{"schema":"v1","comment":"hand","generated_at_utc":null,"fixtures":[],"tooling":{"script":"compute_golden_hashes.py"}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewStore(path, nil)
	prior, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	merged := Merge(prior, []Record{audioRecord("kick", "h")}, nil, testIdentity, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := store.Save(context.Background(), merged); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var written map[string]json.RawMessage
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("decode written manifest: %v", err)
	}
	for key, want := range map[string]string{"schema": `"v1"`, "comment": `"hand"`} {
		if string(written[key]) != want {
			t.Fatalf("top-level key %s = %s, want %s", key, written[key], want)
		}
	}
	for _, key := range []string{"generated_at_utc", "fixtures", "tooling"} {
		if _, ok := written[key]; !ok {
			t.Fatalf("top-level key %s missing from %s", key, data)
		}
	}
	if !strings.HasPrefix(string(data), "{\n  \"generated_at_utc\"") {
		t.Fatalf("known keys should lead the document:\n%s", data)
	}
}
