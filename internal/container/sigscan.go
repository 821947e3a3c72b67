package container

import (
	"bytes"
	"encoding/binary"

	"github.com/go-audio/audio"
)

// DataSlack is how far a declared data size may overrun the buffer and still
// be trusted for the frame count. Larger overruns fall back to the buffer tail.
const DataSlack = 16

// scanSignatures searches the raw bytes for the fmt and data markers and
// rebuilds the best format it can, resetting implausible fields to defaults.
func scanSignatures(blob []byte) (*Decoded, error) {
	dec := &Decoded{}

	fmtAt := bytes.Index(blob, fmtTag)
	if fmtAt < 0 {
		return nil, formatErr(RecoverySignatureScan, ReasonMissingChunk, "no fmt marker")
	}
	dataAt := -1
	if idx := bytes.Index(blob[fmtAt+len(fmtTag):], dataTag); idx >= 0 {
		dataAt = fmtAt + len(fmtTag) + idx
	} else if idx := bytes.Index(blob, dataTag); idx >= 0 {
		dataAt = idx
	}
	if dataAt < 0 || dataAt+chunkHeaderSize > len(blob) {
		return nil, formatErr(RecoverySignatureScan, ReasonMissingChunk, "no data marker with a size field")
	}

	channels, rate, width := scanFmtFields(dec, blob, fmtAt, dataAt)

	declared := int64(binary.LittleEndian.Uint32(blob[dataAt+4 : dataAt+8]))
	payloadStart := dataAt + chunkHeaderSize
	available := int64(len(blob) - payloadStart)

	frames := 0
	switch {
	case declared <= available:
		dec.Payload = blob[payloadStart : payloadStart+int(declared)]
		frames = framesFor(int(declared), channels, width)
	case declared <= available+DataSlack:
		dec.Payload = blob[payloadStart:]
		frames = framesFor(int(declared), channels, width)
		dec.note(RecoverySignatureScan, "data_short", "data chunk declares %d bytes, %d present; trusting declared length", declared, available)
	default:
		dec.Payload = blob[payloadStart:]
		frames = framesFor(int(available), channels, width)
		dec.note(RecoverySignatureScan, "data_size_implausible", "data chunk declares %d bytes, %d present; using buffer tail", declared, available)
	}

	dec.Format = audio.Format{NumChannels: channels, SampleRate: rate}
	dec.SampleWidth = width
	dec.Frames = frames
	return dec, nil
}

// scanFmtFields reads whatever fmt fields the buffer holds after the marker.
func scanFmtFields(dec *Decoded, blob []byte, fmtAt, dataAt int) (channels, rate, width int) {
	fieldsAt := fmtAt + chunkHeaderSize
	end := len(blob)
	if dataAt > fmtAt {
		end = dataAt
	}
	var fields []byte
	if fieldsAt < end {
		fields = blob[fieldsAt:end]
	}

	tag := -1
	if len(fields) >= 2 {
		tag = int(binary.LittleEndian.Uint16(fields[0:2]))
	}
	channels = -1
	if len(fields) >= 4 {
		channels = int(binary.LittleEndian.Uint16(fields[2:4]))
	}
	rate = -1
	if len(fields) >= 8 {
		rate = int(binary.LittleEndian.Uint32(fields[4:8]))
	}
	width = -1
	if len(fields) >= 16 {
		width = bytesPerSample(int(binary.LittleEndian.Uint16(fields[14:16])))
	}
	if tag == formatExtensible && len(fields) >= 26 {
		tag = int(binary.LittleEndian.Uint16(fields[24:26]))
	}

	if tag != formatPCM {
		dec.note(RecoverySignatureScan, "format_assumed", "format tag %d treated as PCM", tag)
	}
	if !channelsSane(channels) {
		dec.note(RecoverySignatureScan, "channels_defaulted", "channel count %d out of range; assuming %d", channels, DefaultChannels)
		channels = DefaultChannels
	}
	if !sampleRateSane(rate) {
		dec.note(RecoverySignatureScan, "sample_rate_defaulted", "sample rate %d out of range; assuming %d", rate, DefaultSampleRate)
		rate = DefaultSampleRate
	}
	if !widthSane(width) {
		dec.note(RecoverySignatureScan, "sample_width_defaulted", "sample width %d bytes out of range; assuming %d", width, DefaultSampleWidth)
		width = DefaultSampleWidth
	}
	return channels, rate, width
}
