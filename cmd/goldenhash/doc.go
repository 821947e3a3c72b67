// Package main hosts the goldenhash CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the slog logger, and
// hands fixture discovery, fingerprinting, and merging to internal/golden.
// Everything this package owns is driver work: reading and writing the
// manifest file, rendering tables and JSON, and recording runs in the history
// ledger.
package main
