// Package filesystem provides the file access used by sqlsplit.
//
// FileSystemProvider covers reading the source migration, writing split files,
// listing an output directory and removing stale files. Two implementations:
//   - OSFileSystem: the real filesystem, with atomic writes
//   - MemoryFileSystem: an in-memory tree for tests
//
// Missing files are reported with errors that satisfy errors.Is(err, fs.ErrNotExist)
// in both implementations.
package filesystem
