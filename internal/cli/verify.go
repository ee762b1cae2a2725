package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/manifest"
	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/internal/tui"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the split files on disk match the current source",
	Long: `Verify splits the source in memory and compares every planned file with
the file on disk.

  ok           identical
  reformatted  only comments, whitespace or case outside literals differ
  modified     SQL differs
  missing      file does not exist
  stale        split file the source no longer produces (see --prune)

Exits with code 14 when any file is missing or modified. When a manifest
from an earlier run exists, a changed source is reported as a warning.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd, getVerboseFlag(cmd))

	settings, err := resolveSettings(cmd, logger)
	if err != nil {
		return err
	}
	source, err := readSource(settings.Source)
	if err != nil {
		return err
	}
	plan, err := splitter.Split(string(source), settings.SplitOptions())
	if err != nil {
		return err
	}

	calc := checksum.New()
	checkManifest(logger, settings.OutputDir, settings.DatePrefix(), source, calc)

	result, err := manifest.Verify(fsProvider, settings.OutputDir, plan, calc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := out == os.Stdout && tui.ColorEnabled(os.Stdout)
	for _, f := range result.Files {
		fmt.Fprintf(out, "%s %s\n", tui.Render(statusStyle(f.Status), fmt.Sprintf("%-12s", f.Status), color), f.Filename)
	}

	missing := result.Count(manifest.StatusMissing)
	modified := result.Count(manifest.StatusModified)
	fmt.Fprintf(out, "\n%d ok, %d reformatted, %d modified, %d missing, %d stale\n",
		result.Count(manifest.StatusOK), result.Count(manifest.StatusReformatted), modified, missing,
		result.Count(manifest.StatusStale))

	if missing+modified > 0 {
		return fmt.Errorf("%w: %d modified, %d missing", sqlsplit.ErrVerificationFailed, modified, missing)
	}
	return nil
}

func statusStyle(s manifest.Status) lipgloss.Style {
	switch s {
	case manifest.StatusOK:
		return tui.SuccessStyle
	case manifest.StatusReformatted, manifest.StatusStale:
		return tui.WarningStyle
	default:
		return tui.ErrorStyle
	}
}

// checkManifest warns when the manifest of an earlier run was produced from a
// different source. A missing manifest is not an error.
func checkManifest(logger sqlsplit.Logger, dir, datePrefix string, source []byte, calc checksum.Calculator) {
	path := filepath.Join(dir, manifest.Filename(datePrefix))
	m, err := manifest.Load(fsProvider, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cannot read manifest %s: %v", path, err)
		}
		return
	}
	if m.SourceChecksum != calc.CalculateRaw(source) {
		logger.Warn("%s changed since %s was written", m.Source, path)
		return
	}
	logger.Verbose("Source matches %s", path)
}
