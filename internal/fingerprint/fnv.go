package fingerprint

import (
	"encoding/binary"
	"fmt"
	"hash"
)

const (
	// Offset is the accumulator seed used by the published manifests.
	Offset uint64 = 1469598103934665603
	// Prime is the 64-bit FNV prime.
	Prime uint64 = 0x100000001B3
	// Size is the digest length in bytes.
	Size = 8
)

// Description is the human-readable algorithm label for manifest tooling blocks.
const Description = "64-bit FNV-1a over PCM payload and log bytes"

type digest uint64

// New returns a streaming hash.Hash64 seeded with Offset.
func New() hash.Hash64 {
	d := digest(Offset)
	return &d
}

func (d *digest) Write(p []byte) (int, error) {
	*d = digest(update(uint64(*d), p))
	return len(p), nil
}

func (d *digest) Sum(in []byte) []byte {
	return binary.BigEndian.AppendUint64(in, uint64(*d))
}

func (d *digest) Sum64() uint64 { return uint64(*d) }

func (d *digest) Reset() { *d = digest(Offset) }

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func update(state uint64, p []byte) uint64 {
	for _, b := range p {
		state ^= uint64(b)
		state *= Prime
	}
	return state
}

// Sum64 hashes data in one pass.
func Sum64(data []byte) uint64 {
	return update(Offset, data)
}

// Hex hashes data and renders the result with Format.
func Hex(data []byte) string {
	return Format(Sum64(data))
}

// Format renders a fingerprint as 16 lowercase, zero-padded hex digits.
func Format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
