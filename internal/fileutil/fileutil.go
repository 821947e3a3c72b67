package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"goldenhash/internal/fingerprint"
)

// ErrCopyMismatch reports a backup whose bytes differ from its source.
var ErrCopyMismatch = errors.New("copy verification failed")

// WriteFileAtomic writes data to a temp file beside path, syncs it, and
// renames it into place. Readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// CopyFileVerified copies src to dst, then re-reads dst and compares its size
// and FNV-1a fingerprint with the source stream. dst is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	srcHash := fingerprint.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHash))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}

	dstSize, dstSum, err := sumFile(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if dstSize != written || dstSum != srcHash.Sum64() {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: source %d bytes %s, copy %d bytes %s", ErrCopyMismatch,
			written, fingerprint.Format(srcHash.Sum64()), dstSize, fingerprint.Format(dstSum))
	}
	return nil
}

func sumFile(path string) (int64, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reopen %s: %w", path, err)
	}
	defer f.Close()
	h := fingerprint.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, 0, fmt.Errorf("verify %s: %w", path, err)
	}
	return n, h.Sum64(), nil
}
