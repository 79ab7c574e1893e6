// Package cas implements the artifact manifest store.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

const manifestExt = ".json"

// Store implements ports.ArtifactStore using a file-per-key strategy.
type Store struct {
	root string
}

// NewStore creates a new ArtifactStore backed by the directory at root.
// The directory is created on the first Put.
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the directory holding the manifests.
func (s *Store) Root() string {
	return s.root
}

// Get retrieves the manifest for key.
func (s *Store) Get(key domain.CacheKey) (*domain.ArtifactManifest, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is constructed from the store root and a validated key
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var manifest domain.ArtifactManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key.String())
	}

	return &manifest, nil
}

// Put stores the manifest under its key.
func (s *Store) Put(manifest domain.ArtifactManifest) error {
	filename, err := s.filename(manifest.Key)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from the store root and a validated key
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

// List returns every stored manifest ordered by key.
// A missing store directory yields an empty list.
func (s *Store) List() ([]domain.ArtifactManifest, error) {
	names, err := s.manifestFiles()
	if err != nil {
		return nil, err
	}

	manifests := make([]domain.ArtifactManifest, 0, len(names))
	for _, name := range names {
		key := domain.CacheKey(strings.TrimSuffix(name, manifestExt))
		manifest, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if manifest != nil {
			manifests = append(manifests, *manifest)
		}
	}

	slices.SortFunc(manifests, func(a, b domain.ArtifactManifest) int {
		return strings.Compare(a.Key.String(), b.Key.String())
	})

	return manifests, nil
}

// Clear removes every stored manifest. Files that are not manifests are left alone.
func (s *Store) Clear() (int, error) {
	names, err := s.manifestFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrStoreRemoveFailed.Error()), "file", name)
		}
		removed++
	}

	return removed, nil
}

func (s *Store) manifestFiles() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != manifestExt {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func (s *Store) filename(key domain.CacheKey) (string, error) {
	k := key.String()
	if k == "" || k == "." || k == ".." || strings.ContainsAny(k, `/\`) {
		return "", zerr.With(zerr.Wrap(domain.ErrStoreInvalidKey, "cache key cannot name a manifest file"), "key", k)
	}
	return filepath.Join(s.root, k+manifestExt), nil
}
