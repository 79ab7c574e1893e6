package ports

import "go.trai.ch/forge/internal/core/domain"

// ArtifactStore persists artifact manifests addressed by cache key.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Get retrieves the manifest for key.
	// Returns nil, nil if not found.
	Get(key domain.CacheKey) (*domain.ArtifactManifest, error)

	// Put stores the manifest.
	Put(manifest domain.ArtifactManifest) error

	// List returns every stored manifest ordered by key.
	List() ([]domain.ArtifactManifest, error)

	// Clear removes every stored manifest and reports how many were removed.
	Clear() (int, error)
}
