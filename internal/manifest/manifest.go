package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sqlsplit/internal/checksum"
	"github.com/vvka-141/sqlsplit/internal/files/filesystem"
	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// Entry describes one emitted file.
type Entry struct {
	ID                 string `yaml:"id"`
	Filename           string `yaml:"filename"`
	Part               int    `yaml:"part"`
	Name               string `yaml:"name"`
	Checksum           string `yaml:"checksum"`
	NormalizedChecksum string `yaml:"normalized_checksum"`
}

// Manifest describes a whole split.
type Manifest struct {
	Source         string  `yaml:"source"`
	SourceChecksum string  `yaml:"source_checksum"`
	Date           string  `yaml:"date"`
	Files          []Entry `yaml:"files"`
}

// Filename returns the manifest name for a date prefix, e.g. 20250110_manifest.yaml.
func Filename(datePrefix string) string {
	return datePrefix + sqlsplit.ManifestSuffix
}

// Build describes plan. source is the raw content the plan was split from.
func Build(plan *splitter.Plan, source []byte, calc checksum.Calculator) *Manifest {
	m := &Manifest{
		Source:         plan.Source,
		SourceChecksum: calc.CalculateRaw(source),
		Date:           plan.Date.Format(sqlsplit.DateLayout),
		Files:          make([]Entry, 0, len(plan.Files)),
	}
	for _, f := range plan.Files {
		content := []byte(f.Content)
		m.Files = append(m.Files, Entry{
			ID:                 FileID(f.Filename).String(),
			Filename:           f.Filename,
			Part:               f.PartNumber,
			Name:               f.PartName,
			Checksum:           calc.CalculateRaw(content),
			NormalizedChecksum: calc.CalculateNormalized(content),
		})
	}
	return m
}

// Save writes m as YAML to path.
func (m *Manifest) Save(fsys filesystem.FileSystemProvider, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", sqlsplit.ErrWriteFailed, path, err)
	}
	return nil
}

// Load reads a manifest written by Save.
func Load(fsys filesystem.FileSystemProvider, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
