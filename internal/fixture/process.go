package fixture

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"goldenhash/internal/container"
	"goldenhash/internal/fingerprint"
	"goldenhash/internal/logging"
	"goldenhash/internal/manifest"
	"goldenhash/internal/pcm"
)

// Options controls per-fixture processing.
type Options struct {
	AllowSalvage bool
	// BaseDir anchors the paths written into records. Empty keeps paths as found.
	BaseDir string
	Logger  *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

// Process fingerprints one candidate.
func Process(c Candidate, opts Options) (manifest.Record, *Failure) {
	switch c.Kind {
	case manifest.KindLog:
		return ProcessLog(c, opts)
	default:
		return ProcessAudio(c, opts)
	}
}

// ProcessAudio decodes, normalizes, and hashes a WAVE fixture.
func ProcessAudio(c Candidate, opts Options) (manifest.Record, *Failure) {
	logger := opts.logger().With(logging.Fixture(c.Name))

	dec, err := container.ReadFile(c.Path, container.Options{AllowSalvage: opts.AllowSalvage})
	if err != nil {
		return manifest.Record{}, classify(c.Name, c.Path, err)
	}
	if dec.Recovery.Salvaged() {
		logging.WarnWithContext(logger, "container salvaged", "container_salvaged",
			logging.Recovery(string(dec.Recovery)),
			logging.Int("diagnostic_count", len(dec.Diagnostics)),
			logging.Hint("re-render the fixture to restore a clean header"))
	}
	for _, diag := range dec.Diagnostics {
		logger.Warn(diag.Message,
			logging.String(logging.FieldEventType, diag.Event),
			logging.Recovery(string(diag.Tier)))
	}

	payload, frames, report, err := pcm.Normalize(dec.Payload, dec.Frames, dec.Channels(), dec.SampleWidth)
	if err != nil {
		return manifest.Record{}, classify(c.Name, c.Path, err)
	}
	if report.PaddedBytes > 0 {
		logging.WarnWithContext(logger, "payload short of declared frames; zero padded", "payload_padded",
			logging.Int("padded_bytes", report.PaddedBytes),
			logging.Int("expected_bytes", report.ExpectedBytes),
			logging.Impact("hash covers restored trailing silence"))
	}
	if report.TruncatedBytes > 0 {
		logging.WarnWithContext(logger, "payload longer than declared frames; truncated", "payload_truncated",
			logging.Int("truncated_bytes", report.TruncatedBytes),
			logging.Int("expected_bytes", report.ExpectedBytes))
	}
	if report.DroppedBytes > 0 {
		logging.WarnWithContext(logger, "partial frame dropped", "payload_partial_frame",
			logging.Int("dropped_bytes", report.DroppedBytes),
			logging.Int("block_align", report.BlockAlign))
	}

	rec := manifest.Record{
		Name: c.Name,
		Kind: manifest.KindAudio,
		Hash: fingerprint.Hex(payload),
		Audio: &manifest.AudioInfo{
			SampleRateHz:  dec.SampleRate(),
			Frames:        frames,
			Channels:      dec.Channels(),
			ChannelLayout: manifest.ChannelLayout(dec.Channels()),
			WavPath:       recordPath(opts.BaseDir, c.Path),
		},
	}
	logger.Debug("audio fixture hashed",
		logging.String("hash", rec.Hash),
		logging.Int("frames", frames),
		logging.Int("channels", dec.Channels()),
		logging.Int("sample_rate_hz", dec.SampleRate()),
		logging.Recovery(string(dec.Recovery)))
	return rec, nil
}

// ProcessLog hashes a log fixture as raw bytes.
func ProcessLog(c Candidate, opts Options) (manifest.Record, *Failure) {
	logger := opts.logger().With(logging.Fixture(c.Name))

	f, err := os.Open(c.Path)
	if err != nil {
		return manifest.Record{}, classify(c.Name, c.Path, err)
	}
	defer f.Close()

	h := fingerprint.New()
	counter := &lineCounter{}
	n, err := io.Copy(io.MultiWriter(h, counter), f)
	if err != nil {
		return manifest.Record{}, classify(c.Name, c.Path, fmt.Errorf("read log %s: %w", c.Path, err))
	}

	rec := manifest.Record{
		Name: c.Name,
		Kind: manifest.KindLog,
		Hash: fingerprint.Format(h.Sum64()),
		Log: &manifest.LogInfo{
			Bytes: n,
			Lines: counter.Lines(),
			Path:  recordPath(opts.BaseDir, c.Path),
		},
	}
	logger.Debug("log fixture hashed",
		logging.String("hash", rec.Hash),
		logging.Int64("bytes", n),
		logging.Int("lines", rec.Log.Lines))
	return rec, nil
}

// lineCounter counts newline-terminated lines plus an unterminated tail.
type lineCounter struct {
	newlines int
	last     byte
	seen     bool
}

func (c *lineCounter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			c.newlines++
		}
	}
	if len(p) > 0 {
		c.last = p[len(p)-1]
		c.seen = true
	}
	return len(p), nil
}

func (c *lineCounter) Lines() int {
	if c.seen && c.last != '\n' {
		return c.newlines + 1
	}
	return c.newlines
}

// recordPath renders path relative to base with forward slashes.
func recordPath(base, path string) string {
	if base != "" {
		abs, err := filepath.Abs(path)
		if err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil && !filepath.IsAbs(rel) && rel != ".." && !hasParentPrefix(rel) {
				return filepath.ToSlash(rel)
			}
		}
	}
	return filepath.ToSlash(path)
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
