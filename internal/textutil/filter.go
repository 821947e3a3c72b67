package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// filterSplitPattern matches the separators accepted between filter tokens.
var filterSplitPattern = regexp.MustCompile(`[,;\s]+`)

var kindAliases = map[string]string{
	"audio":  "audio",
	"audios": "audio",
	"wav":    "audio",
	"stems":  "audio",
	"log":    "log",
	"logs":   "log",
	"txt":    "log",
	"text":   "log",
}

// Filter selects fixtures by kind, name, or path.
// The zero value and a filter holding "all" or "*" match everything.
type Filter struct {
	all    bool
	kinds  map[string]struct{}
	tokens []string
}

// ParseFilter splits raw on commas, semicolons, and whitespace.
func ParseFilter(raw string) Filter {
	var f Filter
	folder := cases.Fold()
	for _, token := range filterSplitPattern.Split(folder.String(NormalizeName(raw)), -1) {
		if token == "" {
			continue
		}
		if token == "all" || token == "*" {
			f.all = true
			continue
		}
		if kind, ok := kindAliases[token]; ok {
			if f.kinds == nil {
				f.kinds = make(map[string]struct{})
			}
			f.kinds[kind] = struct{}{}
			continue
		}
		f.tokens = append(f.tokens, token)
	}
	if len(f.kinds) == 0 && len(f.tokens) == 0 {
		f.all = true
	}
	return f
}

// MatchAll reports whether the filter accepts every fixture.
func (f Filter) MatchAll() bool {
	return f.all || (f.kinds == nil && f.tokens == nil)
}

// Match reports whether a fixture of the given kind, name, and path passes.
func (f Filter) Match(kind, name, path string) bool {
	if f.MatchAll() {
		return true
	}
	if _, ok := f.kinds[kind]; ok {
		return true
	}
	folder := cases.Fold()
	name = folder.String(NormalizeName(name))
	path = folder.String(NormalizeName(path))
	for _, token := range f.tokens {
		if strings.Contains(name, token) || strings.Contains(path, token) {
			return true
		}
	}
	return false
}

// String renders the filter for log output.
func (f Filter) String() string {
	if f.MatchAll() {
		return "all"
	}
	parts := make([]string, 0, len(f.kinds)+len(f.tokens))
	for _, kind := range []string{"audio", "log"} {
		if _, ok := f.kinds[kind]; ok {
			parts = append(parts, kind)
		}
	}
	parts = append(parts, f.tokens...)
	return strings.Join(parts, ",")
}
