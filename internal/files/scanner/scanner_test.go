package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
)

func TestParseSplitFilename(t *testing.T) {
	tests := []struct {
		name     string
		wantPart int
		wantOK   bool
	}{
		{"20250110_001_schema_base.sql", 1, true},
		{"20250110_042_users_2.sql", 42, true},
		{"20250110_1234_big.sql", 1234, true},
		{"20241231_001_schema_base.sql", 0, false},
		{"20250110_01_short.sql", 0, false},
		{"20250110_001_schema.txt", 0, false},
		{"20250110_manifest.yaml", 0, false},
		{"migrazione_completa.sql", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, ok := ParseSplitFilename(tt.name, "20250110")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPart, part)
		})
	}
}

func TestScanOutput(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile("out/20250110_002_dati.sql", "INSERT INTO a VALUES (1);\n")
	mfs.AddFile("out/20250110_001_schema.sql", "CREATE TABLE a (id int);\n")
	mfs.AddFile("out/20241231_001_schema.sql", "other day")
	mfs.AddFile("out/notes.sql", "unrelated")
	mfs.AddFile("out/nested/20250110_003_deep.sql", "not scanned")

	calc := checksum.New()
	files, err := NewScanner(calc, mfs).ScanOutput("out", "20250110")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "20250110_001_schema.sql", files[0].Filename)
	assert.Equal(t, 1, files[0].Part)
	assert.Equal(t, int64(len("CREATE TABLE a (id int);\n")), files[0].SizeBytes)
	assert.Equal(t, calc.CalculateRaw([]byte("CREATE TABLE a (id int);\n")), files[0].Checksum)
	assert.Equal(t, "20250110_002_dati.sql", files[1].Filename)
}

func TestScanOutput_MissingDirectory(t *testing.T) {
	files, err := NewScanner(checksum.New(), filesystem.NewMemoryFileSystem("/work")).ScanOutput("nope", "20250110")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanOutput_ReadError(t *testing.T) {
	mfs := &failingReads{MemoryFileSystem: filesystem.NewMemoryFileSystem("/work")}
	mfs.AddFile("20250110_001_schema.sql", "x")

	_, err := NewScanner(checksum.New(), mfs).ScanOutput(".", "20250110")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20250110_001_schema.sql")
}

func TestStale(t *testing.T) {
	found := []SplitFile{{Filename: "a.sql"}, {Filename: "b.sql"}, {Filename: "c.sql"}}
	stale := Stale(found, []string{"b.sql"})
	assert.Equal(t, []SplitFile{{Filename: "a.sql"}, {Filename: "c.sql"}}, stale)
	assert.Empty(t, Stale(found, []string{"a.sql", "b.sql", "c.sql"}))
}

func TestNewScanner_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewScanner(nil, filesystem.NewMemoryFileSystem("/")) })
	assert.Panics(t, func() { NewScanner(checksum.New(), nil) })
}

type failingReads struct {
	*filesystem.MemoryFileSystem
}

func (f *failingReads) ReadFile(string) ([]byte, error) {
	return nil, errors.New("locked")
}
