package manifest

import "sort"

// Status is the outcome of comparing one fixture with the manifest.
type Status string

const (
	StatusOK      Status = "ok"
	StatusDelta   Status = "delta"
	StatusNew     Status = "new"
	StatusMissing Status = "missing"
)

// Check is one verification line.
type Check struct {
	Name     string
	Kind     Kind
	Status   Status
	Expected string
	Got      string
	Path     string
}

// Report collects verification results sorted by name.
type Report struct {
	Checks []Check
}

// Count returns how many checks have status.
func (r Report) Count(status Status) int {
	n := 0
	for _, check := range r.Checks {
		if check.Status == status {
			n++
		}
	}
	return n
}

// Clean reports whether every fixture matched or is new.
func (r Report) Clean() bool {
	return r.Count(StatusDelta) == 0
}

// Verify compares fresh records with the persisted manifest. Manifest entries
// without a fresh record are reported missing when scope accepts them; a nil
// scope accepts every entry.
func Verify(persisted *Manifest, fresh []Record, scope func(Record) bool) Report {
	seen := make(map[string]struct{}, len(fresh))
	var report Report
	for _, rec := range fresh {
		seen[nameKey(rec.Name)] = struct{}{}
		check := Check{Name: rec.Name, Kind: rec.Kind, Got: rec.Hash, Path: rec.Path()}
		prior, ok := persisted.Lookup(rec.Name)
		switch {
		case !ok:
			check.Status = StatusNew
		case prior.Hash == rec.Hash:
			check.Status = StatusOK
			check.Expected = prior.Hash
		default:
			check.Status = StatusDelta
			check.Expected = prior.Hash
		}
		report.Checks = append(report.Checks, check)
	}
	if persisted != nil {
		for _, prior := range persisted.Fixtures {
			if _, ok := seen[nameKey(prior.Name)]; ok {
				continue
			}
			if scope != nil && !scope(prior) {
				continue
			}
			report.Checks = append(report.Checks, Check{
				Name:     prior.Name,
				Kind:     prior.Kind,
				Status:   StatusMissing,
				Expected: prior.Hash,
				Path:     prior.Path(),
			})
		}
	}
	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})
	return report
}
