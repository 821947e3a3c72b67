// Package container extracts PCM payloads and format metadata from RIFF/WAVE
// fixture files.
//
// Parsing runs as an ordered chain of tiers. The strict tier requires a well
// formed RIFF/WAVE container with a 16-bit PCM fmt chunk and a data chunk that
// fits in the file. When salvage is allowed, a failed strict decode falls
// through to a manual chunk walk that clamps oversized chunks, and finally to
// a signature scan that searches the raw bytes for the fmt and data markers.
// The first tier that succeeds wins. Every salvaged result carries the tier
// that produced it and a diagnostic for each correction, so callers can log
// exactly how much recovery a fingerprint depended on.
package container
