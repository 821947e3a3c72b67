package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the NFC form of name with surrounding space removed.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Stem returns the normalized file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return NormalizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}
