package container

import (
	"fmt"

	"github.com/go-audio/audio"
)

// Recovery names the tier that produced a decode.
type Recovery string

const (
	RecoveryStrict        Recovery = "strict"
	RecoveryChunkWalk     Recovery = "chunk_walk"
	RecoverySignatureScan Recovery = "signature_scan"
)

// Salvaged reports whether the decode needed a salvage tier.
func (r Recovery) Salvaged() bool {
	return r != RecoveryStrict && r != ""
}

// Diagnostic describes one correction applied while decoding.
type Diagnostic struct {
	Tier    Recovery
	Event   string
	Message string
}

// Decoded is the PCM payload and format metadata pulled from a container.
type Decoded struct {
	Payload []byte
	Format  audio.Format
	// SampleWidth is in bytes per sample.
	SampleWidth int
	// Frames is the frame count the container declares. It can disagree
	// with len(Payload) when a salvage tier trusted a declared size.
	Frames      int
	Recovery    Recovery
	Diagnostics []Diagnostic
}

func (d *Decoded) Channels() int   { return d.Format.NumChannels }
func (d *Decoded) SampleRate() int { return d.Format.SampleRate }

// BlockAlign is the byte width of one frame.
func (d *Decoded) BlockAlign() int {
	return d.Format.NumChannels * d.SampleWidth
}

func (d *Decoded) note(tier Recovery, event, format string, args ...any) {
	d.Diagnostics = append(d.Diagnostics, Diagnostic{Tier: tier, Event: event, Message: fmt.Sprintf(format, args...)})
}

// Sanity bounds applied to salvaged format fields.
const (
	MinChannels    = 1
	MaxChannels    = 32
	MinSampleWidth = 1
	MaxSampleWidth = 8
	MinSampleRate  = 8000
	MaxSampleRate  = 384000

	DefaultChannels    = 1
	DefaultSampleRate  = 48000
	DefaultSampleWidth = 2
)

func channelsSane(n int) bool   { return n >= MinChannels && n <= MaxChannels }
func widthSane(n int) bool      { return n >= MinSampleWidth && n <= MaxSampleWidth }
func sampleRateSane(n int) bool { return n >= MinSampleRate && n <= MaxSampleRate }

func bytesPerSample(bits int) int {
	if bits <= 0 {
		return 0
	}
	return (bits-1)/8 + 1
}

func framesFor(length, channels, width int) int {
	align := channels * width
	if align <= 0 {
		return 0
	}
	return length / align
}
