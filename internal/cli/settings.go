package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vvka-141/sqlsplit/internal/config"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/internal/logging"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// settingsFlags holds the flag values shared by the split, plan and verify commands.
type settingsFlags struct {
	source        string
	output        string
	date          string
	onCollision   string
	maxNameLength int
	manifest      bool
	prune         bool
}

var flags settingsFlags

// fsProvider is the filesystem every command reads and writes through.
var fsProvider filesystem.FileSystemProvider = filesystem.NewOSFileSystem()

// newLogger builds the logger for a command. Output goes to the command's
// stderr so tests can capture it.
var newLogger = func(cmd *cobra.Command, verbose bool) sqlsplit.Logger {
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		return logging.NewWriterLogger(w, verbose)
	}
	return logging.NewConsoleLogger(verbose)
}

func addSettingsFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.source, "source", "s", sqlsplit.DefaultSourceFile,
		"Monolithic SQL file to split (env: SQLSPLIT_SOURCE)")
	pf.StringVarP(&flags.output, "output", "o", sqlsplit.DefaultOutputDir,
		"Directory receiving the split files (env: SQLSPLIT_OUTPUT_DIR)")
	pf.StringVar(&flags.date, "date", sqlsplit.DefaultDate,
		"Date stamped into filenames and headers, YYYY-MM-DD (env: SQLSPLIT_DATE)")
	pf.StringVar(&flags.onCollision, "on-collision", sqlsplit.DefaultCollisionPolicy,
		"What to do when two parts derive the same filename: suffix, overwrite or error (env: SQLSPLIT_ON_COLLISION)")
	pf.IntVar(&flags.maxNameLength, "max-name-length", sqlsplit.DefaultMaxNameLength,
		"Maximum length of the sanitized name in filenames (env: SQLSPLIT_MAX_NAME_LENGTH)")
	pf.BoolVar(&flags.manifest, "manifest", false,
		"Write <date>_manifest.yaml with checksums of every emitted file")
	pf.BoolVar(&flags.prune, "prune", false,
		"Remove <date>_*.sql files that the current source no longer produces")
}

// resetSettingsFlags restores defaults between direct invocations in tests.
func resetSettingsFlags() {
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// changed reports whether name was given on the command line.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// buildOverrides turns explicitly set flags into config overrides. Unset
// flags leave room for the environment and sqlsplit.yaml.
func buildOverrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	if changed(cmd, "source") {
		o.Source = &flags.source
	}
	if changed(cmd, "output") {
		o.OutputDir = &flags.output
	}
	if changed(cmd, "date") {
		o.Date = &flags.date
	}
	if changed(cmd, "on-collision") {
		o.OnCollision = &flags.onCollision
	}
	if changed(cmd, "max-name-length") {
		o.MaxNameLength = &flags.maxNameLength
	}
	if changed(cmd, "manifest") {
		o.Manifest = &flags.manifest
	}
	if changed(cmd, "prune") {
		o.Prune = &flags.prune
	}
	return o
}

// resolveSettings merges flags, SQLSPLIT_* variables (.env included),
// sqlsplit.yaml and defaults.
func resolveSettings(cmd *cobra.Command, logger sqlsplit.Logger) (*config.Settings, error) {
	config.LoadEnv()

	projectCfg, err := config.Load(".")
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		projectCfg = nil
	case err != nil:
		return nil, err
	default:
		logger.Verbose("Loaded %s", config.ConfigFileName)
	}

	settings, err := config.Resolve(projectCfg, buildOverrides(cmd))
	if err != nil {
		return nil, err
	}
	logger.Verbose("Source: %s", settings.Source)
	logger.Verbose("Output directory: %s", settings.OutputDir)
	logger.Verbose("Date: %s, collision policy: %s, max name length: %d",
		settings.Date.Format(sqlsplit.DateLayout), settings.OnCollision, settings.MaxNameLength)
	return settings, nil
}

// readSource loads the monolithic migration. It must exist and be UTF-8.
func readSource(path string) ([]byte, error) {
	data, err := fsProvider.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sqlsplit.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", path)
	}
	return data, nil
}
