// Package pcm reconciles declared frame metadata with the PCM bytes actually
// recovered from a container.
//
// Normalize pads a short payload with zero bytes, truncates a long one, and
// drops a trailing partial frame, so the hashed byte count always equals
// frames times the block align. The applied corrections are returned as a
// Report rather than logged here.
package pcm
