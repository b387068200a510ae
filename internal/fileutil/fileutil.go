// Package fileutil provides the file operations used to publish artifacts:
// atomic replacement of output files and existence checks on input assets.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Permissions for created artifacts and their parent directories.
const (
	DirPerm  os.FileMode = 0o750
	FilePerm os.FileMode = 0o644
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath     = errors.New("path cannot be empty")
	ErrNotRegular    = errors.New("not a regular file")
	ErrAtomicReplace = errors.New("atomic replace failed")
)

// WriteAtomic produces dest through a temporary sibling file. write receives
// the temporary path and must leave a complete file there; only then is it
// renamed over dest. On any failure the temporary file is removed and an
// existing dest is left untouched.
func WriteAtomic(dest string, write func(tmpPath string) error) error {
	if dest == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrAtomicReplace, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
	}
	tmpPath := tmp.Name()
	// The writer may want to open the path itself.
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
	}

	if err := write(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
	}
	return nil
}

// WriteFileAtomic writes data to dest via WriteAtomic. The bytes are fully
// flushed and synced before the rename.
func WriteFileAtomic(dest string, data []byte) error {
	return WriteAtomic(dest, func(tmpPath string) error {
		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_TRUNC, FilePerm) // #nosec G304 -- path created by WriteAtomic
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: %v", ErrAtomicReplace, err)
		}
		return f.Close()
	})
}

// CheckFile returns nil if path names a readable regular file.
func CheckFile(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	return CheckFile(path) == nil
}

// IsURL returns true if the string looks like an http(s) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
