package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind distinguishes audio fixtures from log fixtures.
type Kind string

const (
	KindAudio Kind = "audio"
	KindLog   Kind = "log"
)

// AudioInfo holds the format metrics of an audio fixture.
type AudioInfo struct {
	SampleRateHz  int    `json:"sample_rate_hz"`
	Frames        int    `json:"frames"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout"`
	WavPath       string `json:"wav_path"`
}

// LogInfo holds the size metrics of a log fixture.
type LogInfo struct {
	Bytes int64  `json:"bytes"`
	Lines int    `json:"lines"`
	Path  string `json:"path"`
}

// Record is one fixture entry in the manifest.
type Record struct {
	Name  string
	Kind  Kind
	Hash  string
	Notes string
	Audio *AudioInfo
	Log   *LogInfo
	// Extra carries fields this version does not model, verbatim.
	Extra map[string]json.RawMessage
}

var (
	coreKeys  = []string{"name", "kind", "hash", "notes"}
	audioKeys = []string{"sample_rate_hz", "frames", "channels", "channel_layout", "wav_path"}
	logKeys   = []string{"bytes", "lines", "path"}
)

// ChannelLayout labels a channel count.
func ChannelLayout(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return strconv.Itoa(channels) + "-channel"
	}
}

// Path returns the source path recorded for the fixture.
func (r Record) Path() string {
	switch {
	case r.Audio != nil:
		return r.Audio.WavPath
	case r.Log != nil:
		return r.Log.Path
	}
	return ""
}

// fields renders the record as raw JSON values keyed by field name.
func (r Record) fields() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(r.Extra)+len(coreKeys)+len(audioKeys))
	for key, value := range r.Extra {
		out[key] = value
	}
	put := func(key string, value any) error {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		out[key] = raw
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = KindAudio
	}
	for _, kv := range []struct {
		key   string
		value any
	}{{"name", r.Name}, {"kind", kind}, {"hash", r.Hash}, {"notes", r.Notes}} {
		if err := put(kv.key, kv.value); err != nil {
			return nil, err
		}
	}
	if a := r.Audio; a != nil {
		for _, kv := range []struct {
			key   string
			value any
		}{{"sample_rate_hz", a.SampleRateHz}, {"frames", a.Frames}, {"channels", a.Channels}, {"channel_layout", a.ChannelLayout}, {"wav_path", a.WavPath}} {
			if err := put(kv.key, kv.value); err != nil {
				return nil, err
			}
		}
	}
	if l := r.Log; l != nil {
		for _, kv := range []struct {
			key   string
			value any
		}{{"bytes", l.Bytes}, {"lines", l.Lines}, {"path", l.Path}} {
			if err := put(kv.key, kv.value); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// MarshalJSON writes core fields first, then kind fields, then extras sorted.
func (r Record) MarshalJSON() ([]byte, error) {
	fields, err := r.fields()
	if err != nil {
		return nil, err
	}
	order := append([]string(nil), coreKeys...)
	order = append(order, audioKeys...)
	order = append(order, logKeys...)
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		seen[key] = struct{}{}
	}
	var extras []string
	for key := range fields {
		if _, ok := seen[key]; !ok {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	order = append(order, extras...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, key := range order {
		value, ok := fields[key]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		quoted, _ := json.Marshal(key)
		buf.Write(quoted)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts legacy records without a kind as audio.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{}

	var err error
	take := func(key string, dst any) bool {
		value, ok := raw[key]
		if !ok {
			return false
		}
		if string(value) == "null" {
			delete(raw, key)
			return true
		}
		if decodeErr := json.Unmarshal(value, dst); decodeErr != nil {
			if err == nil {
				err = fmt.Errorf("fixture field %q: %w", key, decodeErr)
			}
			return false
		}
		delete(raw, key)
		return true
	}

	take("name", &r.Name)
	var kind string
	take("kind", &kind)
	r.Kind = Kind(kind)
	if r.Kind == "" {
		r.Kind = KindAudio
	}
	take("hash", &r.Hash)
	take("notes", &r.Notes)

	switch r.Kind {
	case KindAudio:
		var a AudioInfo
		present := false
		for _, f := range []struct {
			key string
			dst any
		}{{"sample_rate_hz", &a.SampleRateHz}, {"frames", &a.Frames}, {"channels", &a.Channels}, {"channel_layout", &a.ChannelLayout}, {"wav_path", &a.WavPath}} {
			present = take(f.key, f.dst) || present
		}
		if present {
			r.Audio = &a
		}
	case KindLog:
		var l LogInfo
		present := false
		for _, f := range []struct {
			key string
			dst any
		}{{"bytes", &l.Bytes}, {"lines", &l.Lines}, {"path", &l.Path}} {
			present = take(f.key, f.dst) || present
		}
		if present {
			r.Log = &l
		}
	}
	if err != nil {
		return err
	}
	if len(raw) > 0 {
		r.Extra = raw
	}
	return nil
}
