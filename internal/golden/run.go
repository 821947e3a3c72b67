package golden

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"goldenhash/internal/fixture"
	"goldenhash/internal/logging"
	"goldenhash/internal/manifest"
)

// Request describes one fingerprinting pass.
type Request struct {
	// Root is the fixtures directory. Files, when set, replaces discovery.
	Root     string
	Files    []string
	Selector fixture.Selector

	Prior     *manifest.Manifest
	Overrides map[string]string
	Identity  manifest.Identity

	AllowSalvage bool
	Workers      int
	// BaseDir anchors record paths; usually the working directory.
	BaseDir string

	Logger *slog.Logger
	Now    func() time.Time
}

// Result is the outcome of Run.
type Result struct {
	RunID    string
	Manifest *manifest.Manifest
	// Records holds the fresh records of this pass in discovery order.
	Records  []manifest.Record
	Failures []*fixture.Failure
	Started  time.Time
	Finished time.Time
}

// Err joins every fixture failure, or returns nil.
func (r *Result) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, failure)
	}
	return fmt.Errorf("%d fixture(s) failed: %w", len(r.Failures), errors.Join(errs...))
}

// Run discovers and fingerprints fixtures, then merges the fresh records into
// req.Prior. Fixture failures are collected in the result; the returned error
// is reserved for problems that stop the whole pass.
func Run(ctx context.Context, req Request) (*Result, error) {
	now := req.Now
	if now == nil {
		now = time.Now
	}
	logger := req.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()
	logger = logging.NewComponentLogger(logger, "golden").With(logging.RunID(runID))

	result := &Result{RunID: runID, Started: now()}

	candidates, err := collect(req)
	if err != nil {
		return nil, err
	}
	candidates, duplicates := fixture.Dedupe(candidates)
	result.Failures = append(result.Failures, duplicates...)
	logger.Info("fixtures discovered",
		logging.Int("fixture_count", len(candidates)),
		logging.Int("duplicate_count", len(duplicates)),
		logging.String("filter", req.Selector.Filter.String()),
		logging.Bool("allow_salvage", req.AllowSalvage))

	outcomes := fixture.ProcessAll(ctx, candidates, req.Workers, fixture.Options{
		AllowSalvage: req.AllowSalvage,
		BaseDir:      req.BaseDir,
		Logger:       logging.NewComponentLogger(logger, "fixture"),
	})

	for _, outcome := range outcomes {
		if outcome.Failure != nil {
			result.Failures = append(result.Failures, outcome.Failure)
			logging.ErrorWithContext(logger, "fixture failed", "fixture_failed",
				logging.Fixture(outcome.Candidate.Name),
				logging.Path(outcome.Candidate.Path),
				logging.String("failure_kind", string(outcome.Failure.Kind)),
				logging.Error(outcome.Failure.Err),
				logging.Hint(hintFor(outcome.Failure, req.AllowSalvage)))
			continue
		}
		result.Records = append(result.Records, outcome.Record)
	}

	seen := make(map[string]struct{}, len(result.Records))
	for _, rec := range result.Records {
		seen[rec.Name] = struct{}{}
	}
	for name := range req.Overrides {
		if _, ok := seen[name]; !ok {
			logging.WarnWithContext(logger, "note override matches no scanned fixture", "note_override_unused",
				logging.Fixture(name),
				logging.Impact("override ignored"))
		}
	}

	for _, dup := range req.Prior.Duplicates() {
		logging.WarnWithContext(logger, "manifest lists fixture more than once", "manifest_duplicate_name",
			logging.Fixture(dup.Name),
			logging.Int("entries", dup.Count),
			logging.String("kept_hash", dup.Kept.Hash),
			logging.Hint("remove the duplicate entry from the manifest"),
			logging.Impact("only the last entry is kept"))
	}

	result.Manifest = manifest.Merge(req.Prior, result.Records, req.Overrides, req.Identity, now())
	result.Finished = now()
	logger.Info("fingerprint pass complete",
		logging.Int("record_count", len(result.Records)),
		logging.Int("failure_count", len(result.Failures)),
		logging.Int("manifest_count", len(result.Manifest.Fixtures)),
		logging.Duration("elapsed", result.Finished.Sub(result.Started)))
	return result, nil
}

func collect(req Request) ([]fixture.Candidate, error) {
	if len(req.Files) == 0 {
		candidates, err := fixture.Discover(req.Root, req.Selector)
		if err != nil {
			return nil, fmt.Errorf("discover fixtures: %w", err)
		}
		return candidates, nil
	}
	candidates := make([]fixture.Candidate, 0, len(req.Files))
	for _, path := range req.Files {
		c, ok := req.Selector.Candidate(req.Root, path)
		if !ok {
			return nil, fmt.Errorf("%s: not an audio or log fixture extension", path)
		}
		if !req.Selector.Filter.Match(string(c.Kind), c.Name, c.Rel) {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func hintFor(failure *fixture.Failure, salvage bool) string {
	switch failure.Kind {
	case fixture.FailureFormat:
		if !salvage {
			return "rerun with --allow-salvage to attempt recovery"
		}
		return "re-render the fixture; no parsing tier found both fmt and data"
	case fixture.FailureUnsupportedSampleWidth:
		return "render 16-bit PCM or rerun with --allow-salvage"
	case fixture.FailureInvalidBlockAlign:
		return "the fmt chunk declares zero channels or zero sample width"
	case fixture.FailureDuplicateName:
		return "rename one of the fixtures; names come from file stems"
	default:
		return "check that the file exists and is readable"
	}
}
