package cas

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
)

// MemoryStore implements ports.ArtifactStore in memory.
// It backs builds when persistence is disabled.
type MemoryStore struct {
	mu        sync.RWMutex
	manifests map[domain.CacheKey]domain.ArtifactManifest
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{manifests: make(map[domain.CacheKey]domain.ArtifactManifest)}
}

// Get retrieves the manifest for key.
func (s *MemoryStore) Get(key domain.CacheKey) (*domain.ArtifactManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, ok := s.manifests[key]
	if !ok {
		return nil, nil
	}
	return &manifest, nil
}

// Put stores the manifest under its key.
func (s *MemoryStore) Put(manifest domain.ArtifactManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.manifests[manifest.Key] = manifest
	return nil
}

// List returns every stored manifest ordered by key.
func (s *MemoryStore) List() ([]domain.ArtifactManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifests := slices.Collect(maps.Values(s.manifests))
	slices.SortFunc(manifests, func(a, b domain.ArtifactManifest) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})
	return manifests, nil
}

// Clear removes every stored manifest.
func (s *MemoryStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.manifests)
	clear(s.manifests)
	return n, nil
}
