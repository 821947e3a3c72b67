// Package textutil holds the small text helpers shared by discovery and the
// CLI: Unicode normalization of fixture names and parsing of fixture filter
// tokens.
//
// Fixture names are derived from file stems. Stems are NFC normalized so a
// fixture authored on a filesystem that stores decomposed names keys to the
// same manifest entry as one stored precomposed.
package textutil
