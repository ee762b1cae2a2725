package writer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/internal/files/scanner"
	"github.com/vvka-141/sqlsplit/internal/manifest"
	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// Options controls where and what the writer emits.
type Options struct {
	// OutputDir receives the split files; created when missing.
	OutputDir string
	// Prune removes <date>_*.sql files in OutputDir that the plan does not produce.
	Prune bool
	// Manifest writes <date>_manifest.yaml next to the files.
	Manifest bool
}

// Report lists what a run did.
type Report struct {
	Written  []string
	Pruned   []string
	Manifest string
}

// Writer writes plans through a FileSystemProvider.
type Writer struct {
	fs     filesystem.FileSystemProvider
	logger sqlsplit.Logger
	calc   checksum.Calculator
	opts   Options
}

// New creates a Writer. Panics if fs or logger is nil.
func New(fs filesystem.FileSystemProvider, logger sqlsplit.Logger, opts Options) *Writer {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = sqlsplit.DefaultOutputDir
	}
	return &Writer{fs: fs, logger: logger, calc: checksum.New(), opts: opts}
}

// Write emits every file of plan, then prunes and writes the manifest when
// enabled. source is the document the plan was split from.
func (w *Writer) Write(ctx context.Context, plan *splitter.Plan, source []byte) (Report, error) {
	var report Report

	LogWarnings(w.logger, plan)

	if err := w.fs.MkdirAll(w.opts.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("%w: %s: %v", sqlsplit.ErrWriteFailed, w.opts.OutputDir, err)
	}

	for _, f := range plan.Files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dest := filepath.Join(w.opts.OutputDir, f.Filename)
		if err := w.fs.WriteFile(dest, []byte(f.Content), 0644); err != nil {
			return report, fmt.Errorf("%w: %s: %v", sqlsplit.ErrWriteFailed, dest, err)
		}
		report.Written = append(report.Written, f.Filename)
		w.logger.Info("✓ Creato: %s", f.Filename)
	}

	if w.opts.Prune {
		pruned, err := w.prune(plan)
		report.Pruned = pruned
		if err != nil {
			return report, err
		}
	}

	if w.opts.Manifest {
		name := manifest.Filename(plan.Date.Format(sqlsplit.FilenameDateLayout))
		m := manifest.Build(plan, source, w.calc)
		if err := m.Save(w.fs, filepath.Join(w.opts.OutputDir, name)); err != nil {
			return report, err
		}
		report.Manifest = name
		w.logger.Verbose("Manifest written: %s (%d files)", name, len(m.Files))
	}

	LogSummary(w.logger, plan)
	return report, nil
}

// prune removes stale split files left by earlier runs with different parts.
func (w *Writer) prune(plan *splitter.Plan) ([]string, error) {
	found, err := scanner.NewScanner(w.calc, w.fs).ScanOutput(w.opts.OutputDir, plan.Date.Format(sqlsplit.FilenameDateLayout))
	if err != nil {
		return nil, err
	}

	var pruned []string
	for _, f := range scanner.Stale(found, plan.Filenames()) {
		if err := w.fs.Remove(filepath.Join(w.opts.OutputDir, f.Filename)); err != nil {
			return pruned, fmt.Errorf("failed to remove stale file %s: %w", f.Filename, err)
		}
		pruned = append(pruned, f.Filename)
		w.logger.Info("✗ Rimosso: %s", f.Filename)
	}
	return pruned, nil
}

// LogWarnings reports skipped segments and filename collisions.
func LogWarnings(logger sqlsplit.Logger, plan *splitter.Plan) {
	for _, skipped := range plan.Skipped {
		logger.Warn("%s", skipped.Error())
	}
	for _, c := range plan.Collisions {
		if c.Resolved == "" {
			logger.Warn("segment %d overwrites %s from segment %d", c.Segment+1, c.Filename, c.Previous+1)
			continue
		}
		logger.Warn("segment %d also derives %s (segment %d), written as %s", c.Segment+1, c.Filename, c.Previous+1, c.Resolved)
	}
}

// LogSummary prints the closing count line.
func LogSummary(logger sqlsplit.Logger, plan *splitter.Plan) {
	s := plan.Summary()
	logger.Info("")
	logger.Info("Totale: %d blocchi, %d file scritti, %d saltati", s.Segments, s.Files, s.Skipped)
}
