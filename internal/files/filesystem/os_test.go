package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_WriteFile_CreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	p := NewOSFileSystem()
	target := filepath.Join(dir, "20250110_001_schema.sql")

	require.NoError(t, p.WriteFile(target, []byte("first"), 0644))
	require.NoError(t, p.WriteFile(target, []byte("second"), 0644))

	data, err := p.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	if runtime.GOOS != "windows" {
		info, err := p.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, fs.FileMode(0644), info.Mode().Perm())
	}

	entries, err := p.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "20250110_001_schema.sql", entries[0].Name())
}

func TestOSFileSystem_WriteFile_MissingDirectory(t *testing.T) {
	p := NewOSFileSystem()
	err := p.WriteFile(filepath.Join(t.TempDir(), "nope", "a.sql"), []byte("x"), 0644)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOSFileSystem_ReadFile_NotExist(t *testing.T) {
	p := NewOSFileSystem()
	_, err := p.ReadFile(filepath.Join(t.TempDir(), "missing.sql"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOSFileSystem_Remove(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "old.sql")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	p := NewOSFileSystem()
	require.NoError(t, p.Remove(target))

	_, err := os.Stat(target)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
