package config

import "runtime"

const (
	defaultFixturesRoot    = "build/fixtures"
	defaultManifestPath    = "tests/native_golden/golden.json"
	defaultHistoryDB       = "~/.local/share/goldenhash/history.db"
	defaultHashDescription = "64-bit FNV-1a over PCM payload and log bytes"
	defaultGenerator       = "goldenhash"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	maxDefaultWorkers      = 8
	maxWorkers             = 64
)

var (
	defaultInclude         = []string{"**/*"}
	defaultAudioExtensions = []string{".wav"}
	defaultLogExtensions   = []string{".txt", ".log"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FixturesRoot: defaultFixturesRoot,
			ManifestPath: defaultManifestPath,
			HistoryDB:    defaultHistoryDB,
		},
		Scan: Scan{
			Workers:         defaultWorkers(),
			Include:         append([]string(nil), defaultInclude...),
			AudioExtensions: append([]string(nil), defaultAudioExtensions...),
			LogExtensions:   append([]string(nil), defaultLogExtensions...),
		},
		Tooling: Tooling{
			HashDescription: defaultHashDescription,
			Generator:       defaultGenerator,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxDefaultWorkers {
		n = maxDefaultWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
