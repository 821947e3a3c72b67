package container

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

const chunkHeaderSize = 8

// readStrict decodes a well formed RIFF/WAVE container holding 16-bit PCM.
func readStrict(blob []byte) (*Decoded, error) {
	r := bytes.NewReader(blob)
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return nil, formatErr(RecoveryStrict, ReasonNotRIFF, "header truncated at %d bytes", len(blob))
	}
	if id != riff.RiffID {
		return nil, formatErr(RecoveryStrict, ReasonNotRIFF, "leading tag %q", id[:])
	}
	parser.ID = id
	parser.Size = size

	if err := binary.Read(r, binary.BigEndian, &parser.Format); err != nil {
		return nil, formatErr(RecoveryStrict, ReasonNotWAVE, "form type truncated")
	}
	if parser.Format != riff.WavFormatID {
		return nil, formatErr(RecoveryStrict, ReasonNotWAVE, "form type %q", parser.Format[:])
	}

	var (
		format  *fmtFields
		payload []byte
	)
	for r.Len() > 0 && (format == nil || payload == nil) {
		offset := len(blob) - r.Len()
		if r.Len() < chunkHeaderSize {
			return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "%d trailing bytes at offset %d cannot hold a chunk header", r.Len(), offset)
		}
		chunkID, chunkSize, err := parser.IDnSize()
		if err != nil {
			return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "chunk header at offset %d: %v", offset, err)
		}
		if int64(chunkSize) > int64(r.Len()) {
			return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "chunk %q at offset %d declares %d bytes, %d remain", chunkID[:], offset, chunkSize, r.Len())
		}

		body := io.LimitReader(r, int64(chunkSize))
		switch chunkID {
		case riff.FmtID:
			if format != nil {
				break
			}
			fields, err := decodeFmtChunk(&riff.Chunk{ID: chunkID, Size: int(chunkSize), R: body})
			if err != nil {
				return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "%v", err)
			}
			format = &fields
		case riff.DataFormatID:
			if payload != nil {
				break
			}
			payload = make([]byte, chunkSize)
			if _, err := io.ReadFull(body, payload); err != nil {
				return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "data chunk: %v", err)
			}
		}
		if _, err := io.Copy(io.Discard, body); err != nil {
			return nil, formatErr(RecoveryStrict, ReasonCorruptChunkHeader, "skip chunk %q: %v", chunkID[:], err)
		}
		if chunkSize%2 == 1 && r.Len() > 0 {
			_, _ = r.ReadByte()
		}
	}

	switch {
	case format == nil:
		return nil, formatErr(RecoveryStrict, ReasonMissingChunk, "no fmt chunk")
	case payload == nil:
		return nil, formatErr(RecoveryStrict, ReasonMissingChunk, "no data chunk")
	}
	if !format.isPCM() {
		return nil, formatErr(RecoveryStrict, ReasonUnsupportedFormat, "format tag 0x%04x", format.effectiveTag())
	}
	if format.BitsPerSample != 16 {
		return nil, &SampleWidthError{BitsPerSample: int(format.BitsPerSample)}
	}

	channels := int(format.NumChannels)
	width := format.width()
	return &Decoded{
		Payload:     payload,
		Format:      audio.Format{NumChannels: channels, SampleRate: int(format.SampleRate)},
		SampleWidth: width,
		Frames:      framesFor(len(payload), channels, width),
	}, nil
}
