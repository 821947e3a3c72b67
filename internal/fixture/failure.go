package fixture

import (
	"errors"
	"fmt"

	"goldenhash/internal/container"
	"goldenhash/internal/pcm"
)

// FailureKind classifies why a fixture produced no record.
type FailureKind string

const (
	FailureFormat                 FailureKind = "format"
	FailureUnsupportedSampleWidth FailureKind = "unsupported_sample_width"
	FailureInvalidBlockAlign      FailureKind = "invalid_block_align"
	FailureIO                     FailureKind = "io"
	FailureDuplicateName          FailureKind = "duplicate_name"
)

// Failure reports one fixture that could not be fingerprinted.
type Failure struct {
	Name string
	Path string
	Kind FailureKind
	// Reason is the container reason for format failures.
	Reason container.Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Reason != "" {
		return fmt.Sprintf("%s: %s (%s): %v", f.Path, f.Kind, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// classify maps a processing error to a failure kind.
func classify(name, path string, err error) *Failure {
	failure := &Failure{Name: name, Path: path, Err: err}
	var (
		formatErr *container.FormatError
		widthErr  *container.SampleWidthError
	)
	switch {
	case errors.As(err, &widthErr) && !errors.As(err, &formatErr):
		failure.Kind = FailureUnsupportedSampleWidth
	case errors.As(err, &formatErr):
		failure.Kind = FailureFormat
		failure.Reason = formatErr.Reason
	case errors.Is(err, pcm.ErrInvalidBlockAlign):
		failure.Kind = FailureInvalidBlockAlign
	default:
		failure.Kind = FailureIO
	}
	return failure
}
