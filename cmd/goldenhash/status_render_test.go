package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"goldenhash/internal/manifest"
)

func TestRenderCheckLine(t *testing.T) {
	tests := []struct {
		check manifest.Check
		want  string
	}{
		{manifest.Check{Name: "kick", Status: manifest.StatusOK, Path: "fx/kick.wav"}, "[ok]      kick (fx/kick.wav)"},
		{manifest.Check{Name: "kick", Status: manifest.StatusDelta, Expected: "aa", Got: "bb"}, "[delta]   kick expected aa got bb"},
		{manifest.Check{Name: "hat", Status: manifest.StatusNew, Got: "cc"}, "[new]     hat cc"},
		{manifest.Check{Name: "old", Status: manifest.StatusMissing, Expected: "dd"}, "[missing] old expected dd"},
	}
	for _, tt := range tests {
		if got := renderCheckLine(tt.check, false); got != tt.want {
			t.Fatalf("renderCheckLine(%s)\n got: %q\nwant: %q", tt.check.Status, got, tt.want)
		}
	}
}

func TestRenderCheckLineWithColor(t *testing.T) {
	got := renderCheckLine(manifest.Check{Name: "kick", Status: manifest.StatusDelta}, true)
	if !strings.HasPrefix(got, ansiRed) || !strings.Contains(got, ansiReset) {
		t.Fatalf("expected red label, got %q", got)
	}
}

func TestShouldColorizeIgnoresBuffers(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Manifest", statusWarn, "not written yet", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, checkLabelWidth, "Manifest:", "[WARN] not written yet")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}
