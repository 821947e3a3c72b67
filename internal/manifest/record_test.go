package manifest

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestChannelLayout(t *testing.T) {
	for channels, want := range map[int]string{1: "mono", 2: "stereo", 6: "6-channel", 0: "0-channel"} {
		if got := ChannelLayout(channels); got != want {
			t.Fatalf("ChannelLayout(%d) = %q, want %q", channels, got, want)
		}
	}
}

func TestRecordMarshalOrder(t *testing.T) {
	rec := audioRecord("kick", "0011223344556677")
	rec.Extra = map[string]json.RawMessage{"owner": json.RawMessage(`"qa"`)}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"kick","kind":"audio","hash":"0011223344556677","notes":"","sample_rate_hz":48000,"frames":4,"channels":1,"channel_layout":"mono","wav_path":"build/fixtures/kick.wav","owner":"qa"}`
	if string(data) != want {
		t.Fatalf("marshal =\n%s\nwant\n%s", data, want)
	}
}

func TestRecordLogFields(t *testing.T) {
	rec := Record{Name: "boot", Kind: KindLog, Hash: "h", Log: &LogInfo{Bytes: 12, Lines: 3, Path: "logs/boot.txt"}}
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"bytes":12,"lines":3,"path":"logs/boot.txt"`) {
		t.Fatalf("unexpected log json %s", data)
	}

	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != KindLog || back.Log == nil || back.Log.Lines != 3 || back.Audio != nil || back.Extra != nil {
		t.Fatalf("unexpected record %+v", back)
	}
}

func TestRecordLegacyDefaultsToAudio(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"name":"pad","hash":"abc","wav_path":"pad.wav","sample_rate_hz":44100,"frames":10,"channels":2}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Kind != KindAudio || rec.Audio == nil || rec.Audio.Channels != 2 || rec.Path() != "pad.wav" {
		t.Fatalf("unexpected legacy record %+v", rec)
	}
	if rec.Notes != "" {
		t.Fatalf("notes = %q, want empty", rec.Notes)
	}
}

func TestRecordRejectsMistypedField(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"name":"pad","frames":"ten"}`), &rec); err == nil {
		t.Fatal("expected error for non-numeric frames")
	}
}

func TestManifestNullTooling(t *testing.T) {
	var m Manifest
	if err := json.Unmarshal([]byte(`{"generated_at_utc":"2026-01-01T00:00:00Z","tooling":null}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Fixtures == nil || len(m.Tooling.Legacy) != 0 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.GeneratedAt == nil || *m.GeneratedAt != "2026-01-01T00:00:00Z" {
		t.Fatalf("generated_at = %v", m.GeneratedAt)
	}
}

func TestEncodeEmptyManifest(t *testing.T) {
	data, err := Encode(&Manifest{Tooling: Tooling{Hash: "desc", Generator: "goldenhash"}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "{\n  \"generated_at_utc\": null,\n  \"fixtures\": [],\n  \"tooling\": {\n    \"generator\": \"goldenhash\",\n    \"hash\": \"desc\"\n  }\n}\n"
	if string(data) != want {
		t.Fatalf("Encode =\n%s\nwant\n%s", data, want)
	}
}
