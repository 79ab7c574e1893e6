package ports

import "go.trai.ch/forge/internal/core/domain"

// ConfigLoader defines the interface for loading configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads forge.yaml from the given working directory.
	// A missing file yields the default configuration.
	Load(cwd string) (*domain.Config, error)

	// LoadSolverConfig reads a solver parameter tree from a YAML file.
	LoadSolverConfig(path string) (domain.SolverConfig, error)
}
