// Package fixture discovers golden fixture files and turns each one into a
// manifest record.
//
// Processing a fixture is a pure function of its bytes: audio fixtures go
// through the container reader, the payload normalizer, and the fingerprint
// engine; log fixtures are hashed as raw bytes. Failures are returned per
// fixture as *Failure values so one bad file never stops its siblings.
// ProcessAll fans candidates out over a bounded worker pool and returns
// outcomes in candidate order.
package fixture
