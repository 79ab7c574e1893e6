package config

// Forgefile represents the structure of the forge.yaml configuration file.
type Forgefile struct {
	Version     string         `yaml:"version"`
	ArtifactDir *string        `yaml:"artifact_dir"`
	Persist     *bool          `yaml:"persist"`
	Solver      map[string]any `yaml:"solver"`
}
