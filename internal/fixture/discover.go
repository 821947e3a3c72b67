package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"goldenhash/internal/config"
	"goldenhash/internal/manifest"
	"goldenhash/internal/textutil"
)

// Candidate is a file selected for fingerprinting.
type Candidate struct {
	// Path is the file location as passed to the OS.
	Path string
	// Rel is Path relative to the discovery root, slash separated.
	Rel  string
	Name string
	Kind manifest.Kind
}

// Selector decides which files under a root are fixtures.
type Selector struct {
	Include         []string
	Exclude         []string
	AudioExtensions []string
	LogExtensions   []string
	Filter          textutil.Filter
}

// SelectorFromConfig builds a selector from the scan section.
func SelectorFromConfig(scan config.Scan, filter textutil.Filter) Selector {
	return Selector{
		Include:         scan.Include,
		Exclude:         scan.Exclude,
		AudioExtensions: scan.AudioExtensions,
		LogExtensions:   scan.LogExtensions,
		Filter:          filter,
	}
}

// KindOf returns the fixture kind for path, or "" when the extension is not
// a fixture extension.
func (s Selector) KindOf(path string) manifest.Kind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range s.AudioExtensions {
		if ext == candidate {
			return manifest.KindAudio
		}
	}
	for _, candidate := range s.LogExtensions {
		if ext == candidate {
			return manifest.KindLog
		}
	}
	return ""
}

func (s Selector) matches(rel string) bool {
	included := len(s.Include) == 0
	for _, pattern := range s.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range s.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// Candidate builds a candidate for path relative to root without consulting
// the include, exclude, or filter rules.
func (s Selector) Candidate(root, path string) (Candidate, bool) {
	kind := s.KindOf(path)
	if kind == "" {
		return Candidate{}, false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return Candidate{
		Path: path,
		Rel:  filepath.ToSlash(rel),
		Name: textutil.Stem(path),
		Kind: kind,
	}, true
}

// Discover walks root and returns matching fixtures sorted by relative path.
// A missing root yields no candidates.
func Discover(root string, sel Selector) ([]Candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat fixtures root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures root %s is not a directory", root)
	}

	var out []Candidate
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		candidate, ok := sel.Candidate(root, path)
		if !ok || !sel.matches(candidate.Rel) {
			return nil
		}
		if !sel.Filter.Match(string(candidate.Kind), candidate.Name, candidate.Rel) {
			return nil
		}
		out = append(out, candidate)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk fixtures: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Rel < out[j].Rel
	})
	return out, nil
}

// Dedupe splits candidates into the first holder of each name and the later
// ones that collide with it.
func Dedupe(candidates []Candidate) ([]Candidate, []*Failure) {
	seen := make(map[string]string, len(candidates))
	unique := make([]Candidate, 0, len(candidates))
	var failures []*Failure
	for _, c := range candidates {
		if first, dup := seen[c.Name]; dup {
			failures = append(failures, &Failure{
				Name: c.Name,
				Path: c.Path,
				Kind: FailureDuplicateName,
				Err:  fmt.Errorf("fixture name %q already taken by %s", c.Name, first),
			})
			continue
		}
		seen[c.Name] = c.Path
		unique = append(unique, c)
	}
	return unique, failures
}
