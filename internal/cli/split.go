package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/sqlsplit/internal/files/writer"
	"github.com/vvka-141/sqlsplit/internal/splitter"
)

func runSplit(cmd *cobra.Command, args []string) error {
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

	w := writer.New(fsProvider, logger, writer.Options{
		OutputDir: settings.OutputDir,
		Prune:     settings.Prune,
		Manifest:  settings.Manifest,
	})
	_, err = w.Write(commandContext(cmd), plan, source)
	return err
}
