package manifest

import "testing"

func TestVerify(t *testing.T) {
	persisted := &Manifest{Fixtures: []Record{
		audioRecord("kick", "aaaa"),
		audioRecord("snare", "bbbb"),
		audioRecord("gone", "cccc"),
		{Name: "boot", Kind: KindLog, Hash: "dddd"},
	}}
	fresh := []Record{audioRecord("kick", "aaaa"), audioRecord("snare", "ffff"), audioRecord("hat", "eeee")}

	report := Verify(persisted, fresh, func(rec Record) bool { return rec.Kind == KindAudio })

	want := map[string]Status{"gone": StatusMissing, "hat": StatusNew, "kick": StatusOK, "snare": StatusDelta}
	if len(report.Checks) != len(want) {
		t.Fatalf("checks = %+v", report.Checks)
	}
	for _, check := range report.Checks {
		if want[check.Name] != check.Status {
			t.Fatalf("%s status = %s, want %s", check.Name, check.Status, want[check.Name])
		}
	}
	if report.Checks[0].Name != "gone" {
		t.Fatalf("checks not sorted: %+v", report.Checks)
	}
	if report.Clean() || report.Count(StatusDelta) != 1 {
		t.Fatalf("expected one delta, got %d", report.Count(StatusDelta))
	}
}

func TestVerifyWithoutManifest(t *testing.T) {
	report := Verify(nil, []Record{audioRecord("kick", "aaaa")}, nil)
	if len(report.Checks) != 1 || report.Checks[0].Status != StatusNew || !report.Clean() {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestVerifyMatchesNormalizedName(t *testing.T) {
	persisted := &Manifest{Fixtures: []Record{{Name: "cafe\u0301", Kind: KindAudio, Hash: "h"}}}
	report := Verify(persisted, []Record{{Name: "caf\u00e9", Kind: KindAudio, Hash: "h"}}, nil)
	if len(report.Checks) != 1 || report.Checks[0].Status != StatusOK {
		t.Fatalf("checks = %+v, want a single ok line", report.Checks)
	}
}
