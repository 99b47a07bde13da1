package fs

import (
	"errors"
	"os"
)

func EnsureDir(dirName string, perm os.FileMode) error {
	err := os.MkdirAll(dirName, perm)
	if err == nil {
		return nil
	}

	stat, statErr := os.Stat(dirName)
	if statErr != nil {
		return err
	}

	if !stat.IsDir() {
		return errors.New("path exists but is not a directory")
	}
	return nil
}
