package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers never observe a half-written document.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// ReplaceFile overwrites dst with the full contents of src and verifies the
// result by SHA256. src is read completely before dst is touched, so a missing
// or unreadable source leaves dst intact. dst keeps its permissions when it
// already exists.
func ReplaceFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(dst); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}

	if err := WriteFileAtomic(dst, data, perm); err != nil {
		return err
	}

	written, err := os.ReadFile(dst)
	if err != nil {
		return fmt.Errorf("verify destination: %w", err)
	}
	if len(written) != len(data) {
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", len(data), len(written))
	}
	srcSum := sha256.Sum256(data)
	dstSum := sha256.Sum256(written)
	if !bytes.Equal(srcSum[:], dstSum[:]) {
		return fmt.Errorf("copy hash mismatch: destination differs from source")
	}
	return nil
}
