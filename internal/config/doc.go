// Package config loads, normalizes, and validates goldenhash configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOLDENHASH_FIXTURES_ROOT. The Config type centralizes every knob the CLI and
// the fingerprinting pipeline need so fixture roots, manifest locations, and
// salvage policy are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
