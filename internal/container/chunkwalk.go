package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
)

// walkChunks re-walks the chunk list by hand, clamping any chunk whose
// declared size runs past the end of the buffer.
func walkChunks(blob []byte) (*Decoded, error) {
	dec := &Decoded{}

	start := 12
	if len(blob) < 12 || !bytes.Equal(blob[8:12], waveTag) {
		idx := bytes.Index(blob, waveTag)
		if idx < 0 {
			return nil, formatErr(RecoveryChunkWalk, ReasonNotWAVE, "no WAVE tag in %d bytes", len(blob))
		}
		start = idx + len(waveTag)
		dec.note(RecoveryChunkWalk, "wave_tag_relocated", "WAVE tag found at offset %d", idx)
	}

	var (
		format  *fmtFields
		payload []byte
		found   bool
	)
	off := start
	for off+chunkHeaderSize <= len(blob) {
		id := blob[off : off+4]
		declared := int64(binary.LittleEndian.Uint32(blob[off+4 : off+8]))
		bodyStart := off + chunkHeaderSize
		remaining := int64(len(blob) - bodyStart)

		size := declared
		if size > remaining {
			dec.note(RecoveryChunkWalk, "chunk_clamped", "chunk %q at offset %d declares %d bytes, clamped to %d", id, off, declared, remaining)
			size = remaining
		}
		body := blob[bodyStart : bodyStart+int(size)]

		switch {
		case bytes.Equal(id, fmtTag):
			if format != nil {
				break
			}
			fields, err := parseFmtBody(body)
			if err != nil {
				dec.note(RecoveryChunkWalk, "fmt_rejected", "fmt chunk at offset %d rejected: %v", off, err)
				break
			}
			if reason := rejectFmt(fields); reason != "" {
				dec.note(RecoveryChunkWalk, "fmt_rejected", "fmt chunk at offset %d rejected: %s", off, reason)
				break
			}
			format = &fields
		case bytes.Equal(id, dataTag):
			if found {
				dec.note(RecoveryChunkWalk, "data_ignored", "additional data chunk at offset %d ignored", off)
				break
			}
			payload = body
			found = true
		}

		off = bodyStart + int(size)
		if declared%2 == 1 && off < len(blob) {
			off++
		}
	}
	if tail := len(blob) - off; tail > 0 {
		dec.note(RecoveryChunkWalk, "trailing_bytes", "%d trailing bytes after the last chunk ignored", tail)
	}

	switch {
	case format == nil:
		return nil, formatErr(RecoveryChunkWalk, ReasonMissingChunk, "no usable fmt chunk")
	case !found:
		return nil, formatErr(RecoveryChunkWalk, ReasonMissingChunk, "no data chunk")
	}

	channels := int(format.NumChannels)
	width := format.width()
	dec.Payload = payload
	dec.Format = audio.Format{NumChannels: channels, SampleRate: int(format.SampleRate)}
	dec.SampleWidth = width
	dec.Frames = framesFor(len(payload), channels, width)
	return dec, nil
}

// rejectFmt returns why a salvaged fmt chunk cannot be trusted, or "".
func rejectFmt(f fmtFields) string {
	switch {
	case !f.isPCM():
		return fmt.Sprintf("format tag 0x%04x is not PCM", f.effectiveTag())
	case !channelsSane(int(f.NumChannels)):
		return fmt.Sprintf("channel count %d outside %d..%d", f.NumChannels, MinChannels, MaxChannels)
	case !widthSane(f.width()):
		return fmt.Sprintf("sample width %d bits outside %d..%d bytes", f.BitsPerSample, MinSampleWidth, MaxSampleWidth)
	case !sampleRateSane(int(f.SampleRate)):
		return fmt.Sprintf("sample rate %d outside %d..%d", f.SampleRate, MinSampleRate, MaxSampleRate)
	}
	return ""
}
