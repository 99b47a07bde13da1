package ports

import "os"

// FileSystemPort is the subset of file operations the services depend on,
// abstracted for testing.
type FileSystemPort interface {
	CreateDir(dirPath string, permission os.FileMode) error
	Size(filePath string) (int64, error)
	DeleteFile(filePath string) error
	Rename(sourcePath, destPath string) error
	CopyFile(sourcePath, destPath string) error
	Glob(pattern string) ([]string, error)
	Exists(filePath string) (bool, error)
}
