// Package preflight provides readiness checks for the paths and stores
// goldenhash depends on.
//
// The CLI "goldenhash doctor" command runs RunAll and renders each result as
// a status line. Checks never modify the manifest or the fixtures; the history
// check opens the ledger, which creates it when enabled but absent.
package preflight
