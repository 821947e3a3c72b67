package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"goldenhash/internal/fileutil"
	"goldenhash/internal/logging"
)

const lockRetryDelay = 50 * time.Millisecond

// Store reads and writes one manifest file.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
	// Backup copies the previous manifest to <path>.bak before overwriting it.
	Backup bool
}

// NewStore returns a store for path. A nil logger discards output.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "manifest"),
		lock:   flock.New(path + ".lock"),
	}
}

// Path returns the manifest location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the manifest. A missing or empty file yields (nil, nil).
func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("manifest not found, starting empty", logging.Path(s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", s.path, err)
	}
	s.logger.Debug("loaded manifest",
		logging.Int("fixture_count", len(m.Fixtures)),
		logging.Path(s.path))
	return &m, nil
}

// Save writes m atomically while holding the manifest lock.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	if m == nil {
		return errors.New("manifest is nil")
	}
	data, err := Encode(m)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire manifest lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire manifest lock: %s is held by another process", s.lock.Path())
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release manifest lock",
				logging.String(logging.FieldEventType, "manifest_unlock_failed"),
				logging.Error(err),
				logging.Hint("remove the stale .lock file if no other run is active"),
				logging.Impact("the next write may wait for the lock"))
		}
	}()

	if s.Backup {
		if _, err := os.Stat(s.path); err == nil {
			if err := fileutil.CopyFileVerified(s.path, s.path+".bak"); err != nil {
				return fmt.Errorf("backup manifest: %w", err)
			}
		}
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("persist manifest: %w", err)
	}
	s.logger.Info("manifest written",
		logging.Int("fixture_count", len(m.Fixtures)),
		logging.Path(s.path))
	return nil
}

// Encode renders m as indented JSON with a trailing newline.
func Encode(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}
