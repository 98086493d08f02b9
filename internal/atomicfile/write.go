// Package atomicfile writes files so readers never see a partial write.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Write replaces path with data. The data is written to a temp file in the
// same directory, synced, then renamed over path.
func Write(path string, data []byte, perm os.FileMode) error {
	tmp, err := stage(path, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// WriteNew writes path only if it does not exist yet. It reports whether the
// file was created; an existing file is left untouched.
func WriteNew(path string, data []byte, perm os.FileMode) (bool, error) {
	tmp, err := stage(path, data, perm)
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp)

	// A hard link fails on an existing target, unlike rename.
	if err := os.Link(tmp, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("link temp file: %w", err)
	}
	return true, nil
}

// stage writes data to a synced temp file next to path and returns its name.
func stage(path string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(name, perm)
	}
	if err != nil {
		os.Remove(name)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return name, nil
}
