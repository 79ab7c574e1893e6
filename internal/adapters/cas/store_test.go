package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.ArtifactStore = (*cas.Store)(nil)
	var _ ports.ArtifactStore = (*cas.MemoryStore)(nil)
}

func manifest(key string) domain.ArtifactManifest {
	return domain.ArtifactManifest{
		Key:          domain.CacheKey(key),
		Role:         "matrix",
		Descriptor:   "BCRSMatrix<FieldMatrix<float64,1,1>>",
		Dependencies: []string{"fieldmatrix_float64_1_1"},
		UnitDigest:   "00000000deadbeef",
		Builder:      "forge-native/1",
		Target:       "amd64",
		// JSON round trips drop the monotonic clock reading.
		BuiltAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(filepath.Join(t.TempDir(), "artifacts"))

	t.Run("get before put", func(t *testing.T) {
		got, err := store.Get("matrix_0001")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put creates the store and get returns the manifest", func(t *testing.T) {
		want := manifest("matrix_0001")
		require.NoError(t, store.Put(want))

		got, err := store.Get("matrix_0001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want, *got)

		_, err = os.Stat(filepath.Join(store.Root(), "matrix_0001.json"))
		require.NoError(t, err)
	})

	t.Run("put overwrites", func(t *testing.T) {
		updated := manifest("matrix_0001")
		updated.Target = "arm64"
		require.NoError(t, store.Put(updated))

		got, err := store.Get("matrix_0001")
		require.NoError(t, err)
		assert.Equal(t, "arm64", got.Target)
	})
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)
	require.NoError(t, store.Put(manifest("vector_01")))

	//nolint:gosec // test file
	require.NoError(t, os.WriteFile(filepath.Join(root, "vector_01.json"), []byte("{ invalid json"), 0o600))

	_, err := store.Get("vector_01")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}

func TestStore_InvalidKey(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())

	for _, key := range []domain.CacheKey{"", "..", "a/b", `a\b`} {
		_, err := store.Get(key)
		require.ErrorIs(t, err, domain.ErrStoreInvalidKey, "key %q", key)

		err = store.Put(domain.ArtifactManifest{Key: key})
		require.ErrorIs(t, err, domain.ErrStoreInvalidKey, "key %q", key)
	}
}

func TestStore_ListAndClear(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore(root)

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, key := range []string{"vector_b", "matrix_a", "solver_c"} {
		require.NoError(t, store.Put(manifest(key)))
	}
	//nolint:gosec // test file
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("keep"), 0o600))

	list, err = store.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.CacheKey("matrix_a"), list[0].Key)
	assert.Equal(t, domain.CacheKey("solver_c"), list[1].Key)
	assert.Equal(t, domain.CacheKey("vector_b"), list[2].Key)

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	list, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = os.Stat(filepath.Join(root, "README"))
	require.NoError(t, err)
}

func TestStore_ClearMissingRoot(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(filepath.Join(t.TempDir(), "missing"))
	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := cas.NewMemoryStore()

	got, err := store.Get("matrix_a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Put(manifest("vector_b")))
	require.NoError(t, store.Put(manifest("matrix_a")))

	got, err = store.Get("matrix_a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, manifest("matrix_a"), *got)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.CacheKey("matrix_a"), list[0].Key)

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
