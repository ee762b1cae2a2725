package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vvka-141/sqlsplit/internal/splitter"
	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// Environment variables consulted after .env is loaded.
const (
	EnvSource        = "SQLSPLIT_SOURCE"
	EnvOutputDir     = "SQLSPLIT_OUTPUT_DIR"
	EnvDate          = "SQLSPLIT_DATE"
	EnvOnCollision   = "SQLSPLIT_ON_COLLISION"
	EnvMaxNameLength = "SQLSPLIT_MAX_NAME_LENGTH"
)

// Settings is the fully resolved configuration of a run.
type Settings struct {
	Source        string
	OutputDir     string
	Date          time.Time
	MaxNameLength int
	OnCollision   splitter.CollisionPolicy
	Manifest      bool
	Prune         bool
}

// Overrides carries command-line values. Nil fields were not given.
type Overrides struct {
	Source        *string
	OutputDir     *string
	Date          *string
	MaxNameLength *int
	OnCollision   *string
	Manifest      *bool
	Prune         *bool
}

// LoadEnv loads .env from the working directory. A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// Resolve merges defaults, the project file, the environment and overrides,
// in increasing priority, and validates the result.
func Resolve(project *ProjectConfig, o Overrides) (*Settings, error) {
	raw := struct {
		source, outputDir, date, onCollision string
		maxNameLength                        int
		manifest, prune                      bool
	}{
		source:        sqlsplit.DefaultSourceFile,
		outputDir:     sqlsplit.DefaultOutputDir,
		date:          sqlsplit.DefaultDate,
		onCollision:   sqlsplit.DefaultCollisionPolicy,
		maxNameLength: sqlsplit.DefaultMaxNameLength,
	}

	if project != nil {
		setString(&raw.source, project.Source)
		setString(&raw.outputDir, project.OutputDir)
		setString(&raw.date, project.Date)
		setString(&raw.onCollision, project.OnCollision)
		if project.MaxNameLength != 0 {
			raw.maxNameLength = project.MaxNameLength
		}
		raw.manifest = project.Manifest
		raw.prune = project.Prune
	}

	setString(&raw.source, os.Getenv(EnvSource))
	setString(&raw.outputDir, os.Getenv(EnvOutputDir))
	setString(&raw.date, os.Getenv(EnvDate))
	setString(&raw.onCollision, os.Getenv(EnvOnCollision))
	if v := strings.TrimSpace(os.Getenv(EnvMaxNameLength)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", sqlsplit.ErrInvalidConfig, EnvMaxNameLength, v)
		}
		raw.maxNameLength = n
	}

	if o.Source != nil {
		raw.source = *o.Source
	}
	if o.OutputDir != nil {
		raw.outputDir = *o.OutputDir
	}
	if o.Date != nil {
		raw.date = *o.Date
	}
	if o.OnCollision != nil {
		raw.onCollision = *o.OnCollision
	}
	if o.MaxNameLength != nil {
		raw.maxNameLength = *o.MaxNameLength
	}
	if o.Manifest != nil {
		raw.manifest = *o.Manifest
	}
	if o.Prune != nil {
		raw.prune = *o.Prune
	}

	if strings.TrimSpace(raw.source) == "" {
		return nil, fmt.Errorf("%w: source file name is empty", sqlsplit.ErrInvalidConfig)
	}
	if strings.TrimSpace(raw.outputDir) == "" {
		return nil, fmt.Errorf("%w: output directory is empty", sqlsplit.ErrInvalidConfig)
	}
	date, err := time.Parse(sqlsplit.DateLayout, strings.TrimSpace(raw.date))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must look like %s", sqlsplit.ErrInvalidConfig, raw.date, sqlsplit.DateLayout)
	}
	if raw.maxNameLength <= 0 {
		return nil, fmt.Errorf("%w: max name length must be positive, got %d", sqlsplit.ErrInvalidConfig, raw.maxNameLength)
	}
	policy, err := splitter.ParseCollisionPolicy(raw.onCollision)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Source:        raw.source,
		OutputDir:     raw.outputDir,
		Date:          date,
		MaxNameLength: raw.maxNameLength,
		OnCollision:   policy,
		Manifest:      raw.manifest,
		Prune:         raw.prune,
	}, nil
}

// SplitOptions converts settings into splitter options. Headers quote the
// base name of the source.
func (s *Settings) SplitOptions() splitter.Options {
	return splitter.Options{
		Source:        filepath.Base(s.Source),
		Date:          s.Date,
		MaxNameLength: s.MaxNameLength,
		OnCollision:   s.OnCollision,
	}
}

// DatePrefix returns the compact date used at the start of output filenames.
func (s *Settings) DatePrefix() string {
	return s.Date.Format(sqlsplit.FilenameDateLayout)
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
