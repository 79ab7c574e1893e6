package domain

import "path/filepath"

const (
	// ForgeDirName is the name of the internal workspace directory.
	ForgeDirName = ".forge"

	// ArtifactsDirName is the name of the artifact manifest store directory.
	ArtifactsDirName = "artifacts"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "forge.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultArtifactPath returns the default path of the artifact manifest store.
// It joins .forge and artifacts.
func DefaultArtifactPath() string {
	return filepath.Join(ForgeDirName, ArtifactsDirName)
}
