// Package history keeps a SQLite ledger of fingerprint runs.
//
// Each run stores its fresh records and its fixture failures, so operators
// can see when a fixture's hash last changed and which runs needed salvage
// or failed. The ledger is advisory: the manifest stays the source of truth.
package history
