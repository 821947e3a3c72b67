package container

import (
	"errors"
	"fmt"
	"os"
)

// Options controls how far the chain may go to recover a payload.
type Options struct {
	AllowSalvage bool
}

type tier struct {
	recovery Recovery
	parse    func([]byte) (*Decoded, error)
}

func chain(opts Options) []tier {
	tiers := []tier{{RecoveryStrict, readStrict}}
	if opts.AllowSalvage {
		tiers = append(tiers,
			tier{RecoveryChunkWalk, walkChunks},
			tier{RecoverySignatureScan, scanSignatures},
		)
	}
	return tiers
}

// Read decodes blob with the first tier that succeeds.
//
// Without salvage, strict failures are returned as is: a *FormatError or a
// *SampleWidthError. With salvage, a total failure is a *FormatError carrying
// the strict reason and every tier's error in Attempts.
func Read(blob []byte, opts Options) (*Decoded, error) {
	var failures []error
	for _, t := range chain(opts) {
		dec, err := t.parse(blob)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		dec.Recovery = t.recovery
		if len(failures) > 0 {
			notes := make([]Diagnostic, 0, len(failures)+len(dec.Diagnostics))
			for _, failure := range failures {
				notes = append(notes, Diagnostic{Tier: tierOf(failure), Event: "tier_failed", Message: failure.Error()})
			}
			dec.Diagnostics = append(notes, dec.Diagnostics...)
		}
		return dec, nil
	}

	if len(failures) == 1 {
		return nil, failures[0]
	}
	return nil, &FormatError{
		Reason:   reasonOf(failures[0]),
		Tier:     RecoverySignatureScan,
		Detail:   "no tier could decode the container",
		Attempts: failures,
	}
}

// ReadFile loads path and decodes it with Read.
func ReadFile(path string, opts Options) (*Decoded, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav %s: %w", path, err)
	}
	return Read(blob, opts)
}

func tierOf(err error) Recovery {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Tier
	}
	return RecoveryStrict
}

func reasonOf(err error) Reason {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ReasonUnsupportedFormat
}
