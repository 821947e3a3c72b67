package pcm

import (
	"errors"
	"fmt"
)

// ErrInvalidBlockAlign reports a frame layout with zero bytes per frame.
var ErrInvalidBlockAlign = errors.New("invalid block align")

// Report describes the corrections Normalize applied. Corrections are not
// errors; callers log them.
type Report struct {
	BlockAlign    int
	ExpectedBytes int
	ActualBytes   int
	// PaddedBytes is the number of zero bytes appended to reach the declared length.
	PaddedBytes int
	// TruncatedBytes is the number of surplus bytes beyond the declared length.
	TruncatedBytes int
	// DroppedBytes is the partial trailing frame discarded to restore alignment.
	DroppedBytes int
}

// Corrected reports whether the payload differs from what the container held.
func (r Report) Corrected() bool {
	return r.PaddedBytes > 0 || r.TruncatedBytes > 0 || r.DroppedBytes > 0
}

// Normalize returns a payload whose length is exactly frames*channels*width.
// Short payloads are zero padded, long payloads truncated. The returned frame
// count is recomputed if a partial frame had to be dropped.
func Normalize(payload []byte, frames, channels, width int) ([]byte, int, Report, error) {
	blockAlign := channels * width
	if channels <= 0 || width <= 0 || blockAlign <= 0 {
		return nil, 0, Report{}, fmt.Errorf("%w: %d channels x %d bytes", ErrInvalidBlockAlign, channels, width)
	}
	if frames < 0 {
		frames = 0
	}

	expected := frames * blockAlign
	report := Report{BlockAlign: blockAlign, ExpectedBytes: expected, ActualBytes: len(payload)}

	out := payload
	switch {
	case len(payload) < expected:
		report.PaddedBytes = expected - len(payload)
		out = make([]byte, expected)
		copy(out, payload)
	case len(payload) > expected:
		report.TruncatedBytes = len(payload) - expected
		out = payload[:expected:expected]
	}

	if rem := len(out) % blockAlign; rem != 0 {
		report.DroppedBytes = rem
		out = out[:len(out)-rem]
	}
	frames = len(out) / blockAlign

	return out, frames, report, nil
}
