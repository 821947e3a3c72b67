// Package fingerprint implements the 64-bit FNV-1a hash published in golden
// fixture manifests.
//
// The offset basis is the tooling's historical literal 1469598103934665603,
// not the canonical FNV basis, so hashes stay comparable with manifests that
// were generated before this package existed. Audio payloads and log bytes are
// hashed by the same function.
package fingerprint
