// Package manifest models the golden fixture manifest and folds freshly
// computed fixture records into a previously persisted one.
//
// Records keep any JSON fields this version does not know about, so a
// manifest written by a newer tool survives a round trip through an older
// one. Merge never drops a fixture that the current scan did not see; stale
// entries stay until someone removes them by hand. Notes are human authored
// and survive regeneration unless an explicit override names the fixture.
//
// Store persists manifests atomically under an advisory file lock, and Verify
// compares fresh records against the persisted hashes.
package manifest
