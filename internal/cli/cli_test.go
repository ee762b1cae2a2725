package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sqlsplit/internal/config"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

const rule = "-- ============================================================================"

func part(n, name, body string) string {
	return rule + "\n-- PARTE " + n + ": " + name + "\n" + rule + "\n" + body + "\n\n"
}

var migration = "-- Migrazione completa\n\n" +
	part("1", "Schema Base", "CREATE TABLE a (id int);") +
	part("2", "Add Users Table!", "CREATE TABLE users (id int);") +
	part("3", "Indici", "CREATE INDEX ON a (id);")

// inTempProject runs the test in an empty directory holding the given source.
func inTempProject(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, env := range []string{config.EnvSource, config.EnvOutputDir, config.EnvDate, config.EnvOnCollision, config.EnvMaxNameLength} {
		t.Setenv(env, "")
	}
	if source != "" {
		require.NoError(t, os.WriteFile(sqlsplit.DefaultSourceFile, []byte(source), 0644))
	}
	return dir
}

// execute runs the root command with args and captures stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetSettingsFlags()
	planCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestSplit_Defaults(t *testing.T) {
	dir := inTempProject(t, migration)

	_, stderr, err := execute(t)
	require.NoError(t, err)

	for _, name := range []string{
		"20250110_001_schema_base.sql",
		"20250110_002_add_users_table.sql",
		"20250110_003_indici.sql",
	} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, stderr, "✓ Creato: "+name+"\n")
	}
	assert.Contains(t, stderr, "Totale: 3 blocchi, 3 file scritti, 0 saltati")

	content := readFile(t, "20250110_002_add_users_table.sql")
	assert.True(t, strings.HasPrefix(content, rule+"\n-- BLOCCO 002: Add Users Table!\n"), content)
	assert.Contains(t, content, "-- Estratto da: migrazione_completa.sql\n-- Data: 2025-01-10\n")
	assert.Contains(t, content, "CREATE TABLE users (id int);\n")
	assert.NotContains(t, content, "Migrazione completa")
}

func TestSplit_SourceMissing(t *testing.T) {
	dir := inTempProject(t, "")

	_, _, err := execute(t)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sqlsplit.ErrSourceNotFound))
	assert.Equal(t, sqlsplit.ExitSourceMissing, sqlsplit.ExitCodeForError(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSplit_InvalidUTF8(t *testing.T) {
	inTempProject(t, "")
	require.NoError(t, os.WriteFile(sqlsplit.DefaultSourceFile, []byte{0xff, 0xfe, 'x'}, 0644))

	_, _, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}

func TestSplit_FlagsOverrideEnvAndFile(t *testing.T) {
	inTempProject(t, migration)
	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("date: \"2024-01-01\"\noutput_dir: out\n"), 0644))
	t.Setenv(config.EnvDate, "2024-02-02")

	_, _, err := execute(t)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("out", "20240202_001_schema_base.sql"))

	_, _, err = execute(t, "--date", "2024-03-03", "-o", "flagged")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("flagged", "20240303_001_schema_base.sql"))
	assert.Contains(t, readFile(t, filepath.Join("flagged", "20240303_001_schema_base.sql")), "-- Data: 2024-03-03\n")
}

func TestSplit_CustomSource(t *testing.T) {
	inTempProject(t, "")
	require.NoError(t, os.MkdirAll("db", 0755))
	require.NoError(t, os.WriteFile(filepath.Join("db", "big.sql"), []byte(migration), 0644))

	_, _, err := execute(t, "--source", filepath.Join("db", "big.sql"))
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "20250110_003_indici.sql"), "-- Estratto da: big.sql\n")
}

func TestSplit_InvalidConfig(t *testing.T) {
	inTempProject(t, migration)

	_, _, err := execute(t, "--on-collision", "rename")
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitConfigError, sqlsplit.ExitCodeForError(err))

	require.NoError(t, os.WriteFile(config.ConfigFileName, []byte("sorce: typo.sql\n"), 0644))
	_, _, err = execute(t)
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitConfigError, sqlsplit.ExitCodeForError(err))
}

func TestSplit_CollisionPolicies(t *testing.T) {
	doc := part("4", "Users Table", "SELECT 1;") + part("4", "users table!", "SELECT 2;")
	inTempProject(t, doc)

	_, stderr, err := execute(t)
	require.NoError(t, err)
	assert.FileExists(t, "20250110_004_users_table.sql")
	assert.FileExists(t, "20250110_004_users_table_2.sql")
	assert.Contains(t, stderr, "[WARN] segment 2 also derives 20250110_004_users_table.sql")

	_, _, err = execute(t, "--on-collision", "error", "--date", "2025-02-01")
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitNameCollision, sqlsplit.ExitCodeForError(err))
	assert.NoFileExists(t, "20250201_004_users_table.sql")
}

func TestSplit_WriteFailure(t *testing.T) {
	inTempProject(t, "")

	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFile(sqlsplit.DefaultSourceFile, migration)
	mfs.FailWrites("20250110_002_add_users_table.sql", errors.New("disk full"))
	original := fsProvider
	fsProvider = mfs
	defer func() { fsProvider = original }()

	_, _, err := execute(t)
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitWriteFailed, sqlsplit.ExitCodeForError(err))
	assert.Contains(t, mfs.Files(), "20250110_001_schema_base.sql")
	assert.NotContains(t, mfs.Files(), "20250110_003_indici.sql")
}

func TestSplit_PruneAndManifest(t *testing.T) {
	inTempProject(t, migration)
	require.NoError(t, os.WriteFile("20250110_009_vecchio.sql", []byte("old"), 0644))

	_, stderr, err := execute(t, "--prune", "--manifest")
	require.NoError(t, err)
	assert.NoFileExists(t, "20250110_009_vecchio.sql")
	assert.Contains(t, stderr, "✗ Rimosso: 20250110_009_vecchio.sql")
	assert.Contains(t, readFile(t, "20250110_manifest.yaml"), "20250110_003_indici.sql")
}

func TestSplit_RejectsArgs(t *testing.T) {
	inTempProject(t, migration)

	_, _, err := execute(t, "extra")
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitUsageError, sqlsplit.ExitCodeForError(err))
}

func TestPlan_WritesNothing(t *testing.T) {
	dir := inTempProject(t, migration)

	stdout, _, err := execute(t, "plan")
	require.NoError(t, err)
	assert.Contains(t, stdout, "20250110_001_schema_base.sql  (segment 1, line 3,")
	assert.Contains(t, stdout, "Would write 3 files from 3 blocks into . (0 skipped)")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPlan_JSON(t *testing.T) {
	inTempProject(t, migration+rule+"\n-- PARTE 4:\n"+rule+"\nSELECT 4;\n")

	stdout, _, err := execute(t, "plan", "--json")
	require.NoError(t, err)

	var out planOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "migrazione_completa.sql", out.Source)
	assert.Equal(t, "2025-01-10", out.Date)
	assert.Equal(t, 4, out.Summary.Segments)
	assert.Equal(t, 3, out.Summary.Files)
	require.Len(t, out.Files, 3)
	assert.Equal(t, "20250110_002_add_users_table.sql", out.Files[1].Filename)
	assert.Equal(t, "Add Users Table!", out.Files[1].Name)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, 4, out.Skipped[0].Segment)
	assert.Empty(t, out.Collisions)
}

func TestVerify(t *testing.T) {
	inTempProject(t, migration)

	_, _, err := execute(t, "--manifest")
	require.NoError(t, err)

	stdout, stderr, err := execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 ok, 0 reformatted, 0 modified, 0 missing")
	assert.NotContains(t, stderr, "[WARN]")

	name := "20250110_001_schema_base.sql"
	require.NoError(t, os.WriteFile(name, []byte(readFile(t, name)+"\n-- reviewed\n"), 0644))
	stdout, _, err = execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "reformatted  "+name)

	require.NoError(t, os.Remove("20250110_003_indici.sql"))
	require.NoError(t, os.WriteFile("20250110_002_add_users_table.sql", []byte("DROP TABLE users;\n"), 0644))
	stdout, _, err = execute(t, "verify")
	require.Error(t, err)
	assert.Equal(t, sqlsplit.ExitVerificationFailed, sqlsplit.ExitCodeForError(err))
	assert.Contains(t, stdout, "missing      20250110_003_indici.sql")
	assert.Contains(t, stdout, "modified     20250110_002_add_users_table.sql")
}

func TestVerify_WarnsWhenSourceChanged(t *testing.T) {
	inTempProject(t, migration)

	_, _, err := execute(t, "--manifest")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(sqlsplit.DefaultSourceFile, []byte(migration+"-- coda\n"), 0644))
	stdout, stderr, err := execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[WARN] migrazione_completa.sql changed since 20250110_manifest.yaml was written")
	assert.Contains(t, stdout, "reformatted  20250110_003_indici.sql")
}

func TestVerify_StaleFilesDoNotFail(t *testing.T) {
	inTempProject(t, migration)

	_, _, err := execute(t)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("20250110_009_vecchio.sql", []byte("SELECT 9;\n"), 0644))

	stdout, _, err := execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stale        20250110_009_vecchio.sql")
	assert.Contains(t, stdout, "3 ok, 0 reformatted, 0 modified, 0 missing, 1 stale")
}
