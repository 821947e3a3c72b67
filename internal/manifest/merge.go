package manifest

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Identity is stamped into the tooling block on every merge.
type Identity struct {
	Hash      string
	Generator string
}

// Merge folds fresh records into prior and returns a new manifest.
//
// Each fresh record starts from the prior record of the same name, so fields
// this run does not compute are carried forward, and every freshly computed
// field then overwrites its prior value. Notes come from overrides when the
// name is present there, else from the prior record, else "". Prior records
// absent from fresh are kept. Fixtures are sorted by name and generated_at_utc
// is set to now in UTC, truncated to the second.
//
// Prior records are matched by normalized name, so a legacy NFD or
// space-padded name is replaced by the fresh record. When several prior records
// share a name the last one is kept; callers report them with
// Manifest.Duplicates. Unknown top-level keys of prior are carried.
//
// prior is not modified and may be nil.
func Merge(prior *Manifest, fresh []Record, overrides map[string]string, identity Identity, now time.Time) *Manifest {
	table := make(map[string]Record)
	var (
		tooling Tooling
		extra   map[string]json.RawMessage
	)
	if prior != nil {
		for _, rec := range prior.Fixtures {
			table[nameKey(rec.Name)] = rec
		}
		tooling = prior.Tooling
		extra = prior.Extra
	}

	for _, rec := range fresh {
		merged := rec
		merged.Notes = ""
		key := nameKey(rec.Name)
		if old, ok := table[key]; ok {
			merged.Extra = carryForward(old, rec)
			merged.Notes = old.Notes
		}
		if note, ok := overrides[rec.Name]; ok {
			merged.Notes = strings.TrimSpace(note)
		}
		table[key] = merged
	}

	out := &Manifest{Fixtures: make([]Record, 0, len(table)), Extra: extra}
	for _, rec := range table {
		out.Fixtures = append(out.Fixtures, rec)
	}
	sort.Slice(out.Fixtures, func(i, j int) bool {
		return out.Fixtures[i].Name < out.Fixtures[j].Name
	})

	stamp := now.UTC().Truncate(time.Second).Format(TimestampLayout)
	out.GeneratedAt = &stamp

	out.Tooling = Tooling{
		Hash:      identity.Hash,
		Generator: identity.Generator,
		Legacy:    tooling.Legacy,
		Extra:     tooling.Extra,
	}
	return out
}

// carryForward returns the prior fields that fresh does not set.
func carryForward(prior, fresh Record) map[string]json.RawMessage {
	priorFields, err := prior.fields()
	if err != nil {
		return fresh.Extra
	}
	freshFields, err := fresh.fields()
	if err != nil {
		return fresh.Extra
	}
	carried := make(map[string]json.RawMessage)
	for key, value := range priorFields {
		if _, owned := freshFields[key]; owned {
			continue
		}
		carried[key] = value
	}
	for key, value := range fresh.Extra {
		carried[key] = value
	}
	if len(carried) == 0 {
		return nil
	}
	return carried
}
