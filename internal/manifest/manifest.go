package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"goldenhash/internal/textutil"
)

// TimestampLayout renders generated_at_utc with second precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Manifest is the persisted golden fixture table.
type Manifest struct {
	// GeneratedAt is nil until the first merge.
	GeneratedAt *string  `json:"generated_at_utc"`
	Fixtures    []Record `json:"fixtures"`
	Tooling     Tooling  `json:"tooling"`
	// Extra holds top-level keys this version does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

// Tooling identifies the hash algorithm and the tool that wrote the manifest.
type Tooling struct {
	Hash      string
	Generator string
	// Legacy holds a tooling value that was not a JSON object.
	Legacy json.RawMessage
	Extra  map[string]json.RawMessage
}

// Lookup returns the record for name. An exact match wins; otherwise the
// last record whose normalized name equals name is returned.
func (m *Manifest) Lookup(name string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	var (
		found Record
		ok    bool
	)
	key := nameKey(name)
	for _, rec := range m.Fixtures {
		if rec.Name == name {
			return rec, true
		}
		if nameKey(rec.Name) == key {
			found, ok = rec, true
		}
	}
	return found, ok
}

// Duplicate describes a name shared by several records of one manifest.
type Duplicate struct {
	Name  string
	Count int
	// Kept is the record Merge keeps: the last one listed.
	Kept Record
}

// Duplicates returns the normalized names that more than one record shares,
// sorted by name.
func (m *Manifest) Duplicates() []Duplicate {
	if m == nil {
		return nil
	}
	counts := make(map[string]int, len(m.Fixtures))
	last := make(map[string]Record, len(m.Fixtures))
	for _, rec := range m.Fixtures {
		key := nameKey(rec.Name)
		counts[key]++
		last[key] = rec
	}
	var dups []Duplicate
	for name, n := range counts {
		if n > 1 {
			dups = append(dups, Duplicate{Name: name, Count: n, Kept: last[name]})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Name < dups[j].Name })
	return dups
}

// nameKey folds legacy NFD or space-padded names onto the form discovery
// produces.
func nameKey(name string) string {
	return textutil.NormalizeName(name)
}

// Names returns the fixture names in manifest order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Fixtures))
	for _, rec := range m.Fixtures {
		names = append(names, rec.Name)
	}
	return names
}

func (t Tooling) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(t.Extra)+3)
	for key, value := range t.Extra {
		fields[key] = value
	}
	for key, value := range map[string]string{"hash": t.Hash, "generator": t.Generator} {
		if value == "" {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal tooling %s: %w", key, err)
		}
		fields[key] = raw
	}
	if len(t.Legacy) > 0 {
		fields["legacy"] = t.Legacy
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeFields(&buf, fields, false)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeFields appends fields to buf as object members in key order.
func writeFields(buf *bytes.Buffer, fields map[string]json.RawMessage, leadingComma bool) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		if i > 0 || leadingComma {
			buf.WriteByte(',')
		}
		quoted, _ := json.Marshal(key)
		buf.Write(quoted)
		buf.WriteByte(':')
		buf.Write(fields[key])
	}
}

// UnmarshalJSON keeps a non-object tooling value under Legacy.
func (t *Tooling) UnmarshalJSON(data []byte) error {
	*t = Tooling{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	if trimmed[0] != '{' {
		t.Legacy = append(json.RawMessage(nil), trimmed...)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	for key, dst := range map[string]*string{"hash": &t.Hash, "generator": &t.Generator} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			continue
		}
		delete(raw, key)
	}
	if legacy, ok := raw["legacy"]; ok {
		t.Legacy = legacy
		delete(raw, "legacy")
	}
	if len(raw) > 0 {
		t.Extra = raw
	}
	return nil
}

// MarshalJSON writes generated_at_utc, fixtures and tooling first, then any
// unknown top-level keys carried from the loaded file.
func (m Manifest) MarshalJSON() ([]byte, error) {
	fixtures := m.Fixtures
	if fixtures == nil {
		fixtures = []Record{}
	}
	known := []struct {
		key   string
		value any
	}{
		{"generated_at_utc", m.GeneratedAt},
		{"fixtures", fixtures},
		{"tooling", m.Tooling},
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range known {
		raw, err := json.Marshal(field.value)
		if err != nil {
			return nil, fmt.Errorf("marshal manifest %s: %w", field.key, err)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", field.key)
		buf.Write(raw)
	}
	writeFields(&buf, m.Extra, true)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON tolerates a missing or null fixtures array and keeps unknown
// top-level keys in Extra.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type plain Manifest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"generated_at_utc", "fixtures", "tooling"} {
		delete(raw, key)
	}
	*m = Manifest(decoded)
	if len(raw) > 0 {
		m.Extra = raw
	}
	if m.Fixtures == nil {
		m.Fixtures = []Record{}
	}
	return nil
}
