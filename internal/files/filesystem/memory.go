package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory entries
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryFile struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements FileSystemProvider in memory for tests.
// Relative paths resolve against the root given to NewMemoryFileSystem.
type MemoryFileSystem struct {
	root        string
	files       map[string]*memoryFile
	dirs        map[string]bool
	writeErrors map[string]error
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
// The root path is normalized to forward slashes.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	return &MemoryFileSystem{
		root:        path.Clean(filepath.ToSlash(root)),
		files:       make(map[string]*memoryFile),
		dirs:        make(map[string]bool),
		writeErrors: make(map[string]error),
	}
}

// AddFile adds a file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.put(mfs.abs(filePath), []byte(content), 0644)
}

// FailWrites makes every later WriteFile to filePath return err.
func (mfs *MemoryFileSystem) FailWrites(filePath string, err error) {
	mfs.writeErrors[mfs.abs(filePath)] = err
}

// Files returns the content of every file, keyed by path relative to the root.
func (mfs *MemoryFileSystem) Files() map[string]string {
	out := make(map[string]string, len(mfs.files))
	for p, f := range mfs.files {
		rel := strings.TrimPrefix(strings.TrimPrefix(p, mfs.root), "/")
		out[rel] = string(f.content)
	}
	return out
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(mfs.root, p)
}

func (mfs *MemoryFileSystem) put(absPath string, data []byte, perm fs.FileMode) {
	content := make([]byte, len(data))
	copy(content, data)
	mfs.files[absPath] = &memoryFile{
		content: content,
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    perm,
			modTime: time.Now(),
		},
	}
}

// isDir reports whether dir is the root, was created with MkdirAll or holds
// at least one file.
func (mfs *MemoryFileSystem) isDir(dir string) bool {
	if dir == mfs.root || mfs.dirs[dir] {
		return true
	}
	for p := range mfs.files {
		if strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	for d := range mfs.dirs {
		if strings.HasPrefix(d, dir+"/") {
			return true
		}
	}
	return false
}

func notExist(op, p string) error {
	return &fs.PathError{Op: op, Path: p, Err: fs.ErrNotExist}
}

// ReadFile implements FileSystemProvider.ReadFile
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	f, ok := mfs.files[mfs.abs(filePath)]
	if !ok {
		return nil, notExist("open", filePath)
	}
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

// WriteFile implements FileSystemProvider.WriteFile
func (mfs *MemoryFileSystem) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	absPath := mfs.abs(filePath)
	if err, ok := mfs.writeErrors[absPath]; ok {
		return &fs.PathError{Op: "write", Path: filePath, Err: err}
	}
	if !mfs.isDir(path.Dir(absPath)) {
		return notExist("open", filePath)
	}
	mfs.put(absPath, data, perm)
	return nil
}

// ReadDir implements FileSystemProvider.ReadDir. Only regular files directly
// under dir and implied subdirectories are returned.
func (mfs *MemoryFileSystem) ReadDir(dir string) ([]FileInfo, error) {
	absDir := mfs.abs(dir)
	if !mfs.isDir(absDir) {
		return nil, notExist("readdir", dir)
	}

	seen := make(map[string]FileInfo)
	for p, f := range mfs.files {
		if !strings.HasPrefix(p, absDir+"/") {
			continue
		}
		rest := strings.TrimPrefix(p, absDir+"/")
		if i := strings.Index(rest, "/"); i >= 0 {
			name := rest[:i]
			seen[name] = &memoryFileInfo{name: name, mode: 0755 | fs.ModeDir, isDir: true}
			continue
		}
		seen[rest] = f.info
	}
	for d := range mfs.dirs {
		if !strings.HasPrefix(d, absDir+"/") {
			continue
		}
		name := strings.SplitN(strings.TrimPrefix(d, absDir+"/"), "/", 2)[0]
		seen[name] = &memoryFileInfo{name: name, mode: 0755 | fs.ModeDir, isDir: true}
	}

	result := make([]FileInfo, 0, len(seen))
	for _, info := range seen {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	absPath := mfs.abs(statPath)
	if f, ok := mfs.files[absPath]; ok {
		return f.info, nil
	}
	if mfs.isDir(absPath) {
		return &memoryFileInfo{name: path.Base(absPath), mode: 0755 | fs.ModeDir, isDir: true}, nil
	}
	return nil, notExist("stat", statPath)
}

// Remove implements FileSystemProvider.Remove
func (mfs *MemoryFileSystem) Remove(filePath string) error {
	absPath := mfs.abs(filePath)
	if _, ok := mfs.files[absPath]; !ok {
		return notExist("remove", filePath)
	}
	delete(mfs.files, absPath)
	return nil
}

// MkdirAll implements FileSystemProvider.MkdirAll
func (mfs *MemoryFileSystem) MkdirAll(dirPath string, perm fs.FileMode) error {
	absPath := mfs.abs(dirPath)
	if _, ok := mfs.files[absPath]; ok {
		return &fs.PathError{Op: "mkdir", Path: dirPath, Err: fs.ErrExist}
	}
	for d := absPath; d != mfs.root && d != "/" && d != "."; d = path.Dir(d) {
		mfs.dirs[d] = true
	}
	return nil
}
