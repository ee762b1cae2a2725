package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// FileSystemProvider abstracts the filesystem operations sqlsplit needs.
type FileSystemProvider interface {
	// ReadFile reads the whole file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or replaces the file at path. Readers never observe a
	// partially written file.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// ReadDir returns the entries of the directory at path, sorted by name.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)

	// Remove deletes the file at path.
	Remove(path string) error

	// MkdirAll creates the directory at path and any missing parents.
	MkdirAll(path string, perm fs.FileMode) error
}
