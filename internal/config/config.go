package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/sqlsplit/pkg/sqlsplit"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the working directory.
const ConfigFileName = "sqlsplit.yaml"

// ProjectConfig mirrors sqlsplit.yaml. Zero values mean "not set".
type ProjectConfig struct {
	Source        string `yaml:"source,omitempty"`
	OutputDir     string `yaml:"output_dir,omitempty"`
	Date          string `yaml:"date,omitempty"`
	MaxNameLength int    `yaml:"max_name_length,omitempty"`
	OnCollision   string `yaml:"on_collision,omitempty"`
	Manifest      bool   `yaml:"manifest,omitempty"`
	Prune         bool   `yaml:"prune,omitempty"`
}

// Load reads sqlsplit.yaml from dir. Unknown keys are rejected so typos surface.
func Load(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", sqlsplit.ErrInvalidConfig, ConfigFileName, err)
	}
	return &cfg, nil
}
