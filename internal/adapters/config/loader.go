// Package config provides the configuration loader for forge.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var errEmptyArtifactDir = zerr.New("artifact_dir must not be empty")

// SupportedVersion is the only forge.yaml schema version understood by the loader.
const SupportedVersion = "1"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
	logger   ports.Logger
}

// NewLoader creates a FileConfigLoader reading forge.yaml.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{
		Filename: domain.ConfigFileName,
		logger:   logger,
	}
}

// Load reads the configuration from the given working directory.
// A missing file yields the default configuration.
func (l *FileConfigLoader) Load(cwd string) (*domain.Config, error) {
	path := filepath.Join(cwd, l.Filename)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if l.logger != nil && cfg.Version != "" && cfg.Version != SupportedVersion {
		l.logger.Warn("unknown forge.yaml version " + cfg.Version + ", reading it as version " + SupportedVersion)
	}

	return cfg.Config, nil
}

// LoadSolverConfig reads a solver parameter tree from a YAML file.
// The tree is used as given. It is not merged with the defaults.
func (l *FileConfigLoader) LoadSolverConfig(path string) (domain.SolverConfig, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return domain.SolverConfig(tree), nil
}

// Loaded is a parsed forge.yaml together with its schema version.
type Loaded struct {
	*domain.Config
	Version string
}

// Load reads a configuration file from the given path.
// Unset fields keep their defaults; a solver section overrides the default solver key by key.
func Load(path string) (*Loaded, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Forgefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	cfg := domain.DefaultConfig()
	if file.ArtifactDir != nil {
		dir := strings.TrimSpace(*file.ArtifactDir)
		if dir == "" {
			return nil, zerr.With(zerr.Wrap(errEmptyArtifactDir, domain.ErrConfigParseFailed.Error()), "path", path)
		}
		cfg.ArtifactDir = dir
	}
	if file.Persist != nil {
		cfg.Persist = *file.Persist
	}
	if file.Solver != nil {
		cfg.Solver = cfg.Solver.Merge(domain.SolverConfig(file.Solver))
	}

	return &Loaded{Config: cfg, Version: file.Version}, nil
}
