package domain

// Config is the resolved project configuration.
type Config struct {
	// ArtifactDir is where the builder persists artifact manifests.
	ArtifactDir string
	// Persist disables the on-disk manifest store when false.
	Persist bool
	// Solver is the default solver configuration used by the solve command.
	Solver SolverConfig
}

// DefaultSolverConfig returns the solver configuration used when none is given.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		KeyType:      "cgsolver",
		KeyReduction: 1e-8,
		KeyMaxIt:     1000,
		KeyVerbose:   0,
		KeyPreconditioner: SolverConfig{
			KeyType: "ssor",
		},
	}
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		ArtifactDir: DefaultArtifactPath(),
		Persist:     true,
		Solver:      DefaultSolverConfig(),
	}
}
