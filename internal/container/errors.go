package container

import (
	"fmt"
	"strings"
)

// Reason tags why a container could not be parsed.
type Reason string

const (
	ReasonNotRIFF            Reason = "not_riff"
	ReasonNotWAVE            Reason = "not_wave"
	ReasonUnsupportedFormat  Reason = "unsupported_format"
	ReasonCorruptChunkHeader Reason = "corrupt_chunk_header"
	ReasonMissingChunk       Reason = "missing_chunk"
)

// FormatError reports a container that a tier, or the whole chain, could not parse.
type FormatError struct {
	Reason Reason
	Tier   Recovery
	Detail string
	// Attempts holds every tier failure when salvage was exhausted.
	Attempts []error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("wav format error (")
	b.WriteString(string(e.Reason))
	b.WriteByte(')')
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if len(e.Attempts) > 0 {
		parts := make([]string, 0, len(e.Attempts))
		for _, attempt := range e.Attempts {
			parts = append(parts, attempt.Error())
		}
		b.WriteString(" [tiers: ")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteByte(']')
	}
	return b.String()
}

func (e *FormatError) Unwrap() []error { return e.Attempts }

func formatErr(tier Recovery, reason Reason, format string, args ...any) *FormatError {
	return &FormatError{Reason: reason, Tier: tier, Detail: fmt.Sprintf(format, args...)}
}

// SampleWidthError reports PCM that the strict tier does not fingerprint.
type SampleWidthError struct {
	BitsPerSample int
}

func (e *SampleWidthError) Error() string {
	return fmt.Sprintf("unsupported sample width: %d-bit PCM, strict mode expects 16-bit (enable salvage to accept it)", e.BitsPerSample)
}
