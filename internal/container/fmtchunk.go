package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	formatPCM        = 0x0001
	formatExtensible = 0xFFFE

	fmtMinSize        = 16
	fmtExtensibleSize = 40
)

var (
	riffTag = riff.RiffID[:]
	waveTag = riff.WavFormatID[:]
	fmtTag  = riff.FmtID[:]
	dataTag = riff.DataFormatID[:]
)

// fmtFields holds the fmt chunk fields the fingerprint depends on.
type fmtFields struct {
	FormatTag     uint16
	NumChannels   uint16
	SampleRate    uint32
	BlockAlign    uint16
	BitsPerSample uint16
	// SubFormat is the effective tag of a WAVE_FORMAT_EXTENSIBLE chunk.
	SubFormat uint16
}

func (f fmtFields) effectiveTag() uint16 {
	if f.FormatTag == formatExtensible {
		return f.SubFormat
	}
	return f.FormatTag
}

func (f fmtFields) isPCM() bool {
	return f.effectiveTag() == formatPCM
}

func (f fmtFields) width() int {
	return bytesPerSample(int(f.BitsPerSample))
}

// decodeFmtChunk reads fmt fields through a riff chunk.
func decodeFmtChunk(ch *riff.Chunk) (fmtFields, error) {
	var f fmtFields
	if ch.Size < fmtMinSize {
		return f, fmt.Errorf("fmt chunk holds %d bytes, need %d", ch.Size, fmtMinSize)
	}
	var avgBytesPerSec uint32
	for _, dst := range []any{&f.FormatTag, &f.NumChannels, &f.SampleRate, &avgBytesPerSec, &f.BlockAlign, &f.BitsPerSample} {
		if err := ch.ReadLE(dst); err != nil {
			return f, fmt.Errorf("read fmt field: %w", err)
		}
	}
	if f.FormatTag != formatExtensible || ch.Size < fmtExtensibleSize {
		return f, nil
	}
	var (
		extraSize   uint16
		validBits   uint16
		channelMask uint32
		subFormat   [16]byte
	)
	for _, dst := range []any{&extraSize, &validBits, &channelMask, &subFormat} {
		if err := ch.ReadLE(dst); err != nil {
			return f, fmt.Errorf("read fmt extension: %w", err)
		}
	}
	f.SubFormat = binary.LittleEndian.Uint16(subFormat[:2])
	return f, nil
}

// parseFmtBody decodes fmt fields from an in-memory chunk body.
func parseFmtBody(body []byte) (fmtFields, error) {
	ch := &riff.Chunk{ID: riff.FmtID, Size: len(body), R: bytes.NewReader(body)}
	return decodeFmtChunk(ch)
}
