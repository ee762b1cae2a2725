package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// splitFileRegex matches <date>_<part>_<rest>.sql; the date is checked separately.
var splitFileRegex = regexp.MustCompile(`^(\d{8})_(\d{3,})_([^/\\]+)\.sql$`)

// SplitFile describes one split file found on disk.
type SplitFile struct {
	Filename           string
	Part               int
	SizeBytes          int64
	Checksum           string
	NormalizedChecksum string
}

// Scanner discovers split files in a directory.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided calculator and fsProvider are also thread-safe.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner reading through fsProvider.
// Panics if calculator or fsProvider is nil.
func NewScanner(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ParseSplitFilename reports whether name is a split file for datePrefix and
// returns its part number.
func ParseSplitFilename(name, datePrefix string) (int, bool) {
	m := splitFileRegex.FindStringSubmatch(name)
	if m == nil || m[1] != datePrefix {
		return 0, false
	}
	part, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return part, true
}

// ScanOutput lists the split files for datePrefix directly under dir, sorted
// by filename. A missing directory yields no files.
func (s *Scanner) ScanOutput(dir, datePrefix string) ([]SplitFile, error) {
	entries, err := s.fsProvider.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []SplitFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != sqlsplit.OutputExtension {
			continue
		}
		part, ok := ParseSplitFilename(e.Name(), datePrefix)
		if !ok {
			continue
		}

		content, err := s.fsProvider.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		files = append(files, SplitFile{
			Filename:           e.Name(),
			Part:               part,
			SizeBytes:          int64(len(content)),
			Checksum:           s.calculator.CalculateRaw(content),
			NormalizedChecksum: s.calculator.CalculateNormalized(content),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// Stale returns the files in found whose names are not in keep.
func Stale(found []SplitFile, keep []string) []SplitFile {
	wanted := make(map[string]bool, len(keep))
	for _, name := range keep {
		wanted[name] = true
	}
	var stale []SplitFile
	for _, f := range found {
		if !wanted[f.Filename] {
			stale = append(stale, f)
		}
	}
	return stale
}
