package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/internal/files/scanner"
	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// Status is the verification outcome for one file.
type Status string

const (
	StatusOK          Status = "ok"
	StatusMissing     Status = "missing"
	StatusModified    Status = "modified"
	StatusReformatted Status = "reformatted" // only comments, layout or keyword case differ
	StatusStale       Status = "stale"       // split file the plan no longer produces
)

// FileResult is the outcome for one planned file.
type FileResult struct {
	Filename string `json:"filename"`
	Status   Status `json:"status"`
}

// VerifyResult collects the outcome for every planned file, in plan order.
type VerifyResult struct {
	Files []FileResult `json:"files"`
}

// OK reports whether every file matched exactly.
func (r VerifyResult) OK() bool {
	for _, f := range r.Files {
		if f.Status != StatusOK {
			return false
		}
	}
	return true
}

// Count returns how many files have status s.
func (r VerifyResult) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Verify compares the files plan would write into dir with what is there now.
// Split files with the plan's date that the plan does not produce are
// reported as stale after the planned files.
func Verify(fsys filesystem.FileSystemProvider, dir string, plan *splitter.Plan, calc checksum.Calculator) (VerifyResult, error) {
	var result VerifyResult
	for _, f := range plan.Files {
		status, err := verifyFile(fsys, filepath.Join(dir, f.Filename), []byte(f.Content), calc)
		if err != nil {
			return VerifyResult{}, err
		}
		result.Files = append(result.Files, FileResult{Filename: f.Filename, Status: status})
	}

	found, err := scanner.NewScanner(calc, fsys).ScanOutput(dir, plan.Date.Format(sqlsplit.FilenameDateLayout))
	if err != nil {
		return VerifyResult{}, err
	}
	for _, f := range scanner.Stale(found, plan.Filenames()) {
		result.Files = append(result.Files, FileResult{Filename: f.Filename, Status: StatusStale})
	}
	return result, nil
}

func verifyFile(fsys filesystem.FileSystemProvider, path string, want []byte, calc checksum.Calculator) (Status, error) {
	got, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing, nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	if calc.CalculateRaw(got) == calc.CalculateRaw(want) {
		return StatusOK, nil
	}
	if calc.CalculateNormalized(got) == calc.CalculateNormalized(want) {
		return StatusReformatted, nil
	}
	return StatusModified, nil
}
