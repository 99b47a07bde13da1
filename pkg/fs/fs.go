package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalFileSystem struct{}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// Creates a directory and any missing parents. Succeeds if the directory
// already exists, fails if the path exists but isn't a directory.
func (lfs *LocalFileSystem) CreateDir(dirPath string, permission os.FileMode) error {
	return EnsureDir(dirPath, permission)
}

// Returns the size of a regular file.
func (lfs *LocalFileSystem) Size(filePath string) (int64, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	if !stat.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", filePath)
	}
	return stat.Size(), nil
}

// Deletes a file. A file that is already gone is not an error.
func (lfs *LocalFileSystem) DeleteFile(filePath string) error {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Moves a file, replacing the destination.
func (lfs *LocalFileSystem) Rename(sourcePath, destPath string) error {
	return os.Rename(sourcePath, destPath)
}

// Copies a file from source to destination, streaming the contents and
// keeping the source's permission bits.
func (lfs *LocalFileSystem) CopyFile(sourcePath, destPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	stat, err := src.Stat()
	if err != nil {
		return err
	}

	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, stat.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

// Expands a glob pattern into the matching paths.
func (lfs *LocalFileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// Checks if a file exists or not.
func (lfs *LocalFileSystem) Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Reports whether path is a regular file with a .pdf extension, in any case.
func IsPDF(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false
	}
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// Returns true for patterns containing glob metacharacters.
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
