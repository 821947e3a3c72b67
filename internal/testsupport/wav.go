package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV describes a RIFF/WAVE file to assemble byte by byte.
type WAV struct {
	FormatTag     uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	Payload       []byte
	// FmtSize overrides the declared fmt chunk size when non-zero.
	FmtSize uint32
	// DataSizeDelta is added to len(Payload) for the declared data size.
	DataSizeDelta int
	// Before lists raw chunks written between the WAVE tag and fmt.
	Before [][]byte
	// OmitFmt and OmitData drop the respective chunk.
	OmitFmt  bool
	OmitData bool
}

// PCM16 builds a 16-bit PCM description with the common defaults.
func PCM16(channels uint16, rate uint32, payload []byte) WAV {
	return WAV{FormatTag: 1, Channels: channels, SampleRate: rate, BitsPerSample: 16, Payload: payload}
}

// Bytes assembles the file.
func (w WAV) Bytes() []byte {
	var body []byte
	body = append(body, "WAVE"...)
	for _, chunk := range w.Before {
		body = append(body, chunk...)
	}
	if !w.OmitFmt {
		fmtSize := w.FmtSize
		if fmtSize == 0 {
			fmtSize = 16
		}
		width := (int(w.BitsPerSample) + 7) / 8
		blockAlign := uint16(int(w.Channels) * width)
		body = append(body, "fmt "...)
		body = binary.LittleEndian.AppendUint32(body, fmtSize)
		body = binary.LittleEndian.AppendUint16(body, w.FormatTag)
		body = binary.LittleEndian.AppendUint16(body, w.Channels)
		body = binary.LittleEndian.AppendUint32(body, w.SampleRate)
		body = binary.LittleEndian.AppendUint32(body, w.SampleRate*uint32(blockAlign))
		body = binary.LittleEndian.AppendUint16(body, blockAlign)
		body = binary.LittleEndian.AppendUint16(body, w.BitsPerSample)
	}
	if !w.OmitData {
		body = append(body, "data"...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(w.Payload)+w.DataSizeDelta))
		body = append(body, w.Payload...)
		if len(w.Payload)%2 == 1 {
			body = append(body, 0)
		}
	}

	out := make([]byte, 0, len(body)+8)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

// Chunk returns a raw chunk with the given id and body, padded to even length.
func Chunk(id string, body []byte) []byte {
	out := append([]byte(id), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(body)))
	out = append(out, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

// Ramp returns n bytes counting up from zero.
func Ramp(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

// PutUint32 overwrites four little-endian bytes at offset.
func PutUint32(blob []byte, offset int, v uint32) []byte {
	out := append([]byte(nil), blob...)
	binary.LittleEndian.PutUint32(out[offset:offset+4], v)
	return out
}

// EncodeWAV renders interleaved samples through a real WAV encoder and
// writes the result to path.
func EncodeWAV(t testing.TB, path string, samples []int, channels, rate, bits int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bits, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
}
