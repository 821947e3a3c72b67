// Package golden runs one fingerprinting pass: it discovers fixtures, hashes
// them on a bounded worker pool, and folds the records into the prior
// manifest once every worker has finished.
//
// Run never touches the disk beyond reading fixtures. Persisting the merged
// manifest and rendering results are left to the caller.
package golden
