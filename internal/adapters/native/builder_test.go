package native_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/native"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
)

func TestBuilder_Build(t *testing.T) {
	store := cas.NewMemoryStore()
	recorder := &fakeRecorder{}
	builder := native.NewBuilder(store, recorder, quietLogger(t), io.Discard)
	builtAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	native.SetClock(builder, func() time.Time { return builtAt })

	block := domain.BlockShape{Rows: 3, Cols: 3}
	plan := planFor(t, domain.MatrixRequest{Block: &block})

	artifact, err := builder.Build(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, plan.Key, artifact.Key())
	assert.Equal(t, plan.Descriptor.String(), artifact.Descriptor().String())

	manifest, err := store.Get(plan.Key)
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, plan.Key, manifest.Key)
	assert.Equal(t, "matrix", manifest.Role)
	assert.Equal(t, plan.Descriptor.String(), manifest.Descriptor)
	assert.Equal(t, []string{domain.DepFieldMatrix, domain.DepBCRSMatrix}, manifest.Dependencies)
	assert.Equal(t, native.UnitDigest(native.RenderUnit(plan)), manifest.UnitDigest)
	assert.Equal(t, native.BuilderVersion, manifest.Builder)
	assert.Equal(t, native.HostTarget(), manifest.Target)
	assert.Equal(t, builtAt, manifest.BuiltAt)

	vertex := recorder.last(t)
	assert.Equal(t, plan.Key.String(), vertex.id)
	assert.Equal(t, "build "+plan.Descriptor.String(), vertex.name)
	assert.True(t, vertex.done)
	assert.NoError(t, vertex.err)
	assert.False(t, vertex.cached)
	assert.Equal(t, native.RenderUnit(plan), vertex.stdout.String())
}

func TestBuilder_ReusesManifest(t *testing.T) {
	store := cas.NewMemoryStore()
	recorder := &fakeRecorder{}
	builder := native.NewBuilder(store, recorder, quietLogger(t), io.Discard)
	plan := planFor(t, domain.VectorRequest{BlockSize: 2})

	_, err := builder.Build(context.Background(), plan)
	require.NoError(t, err)
	first, err := store.Get(plan.Key)
	require.NoError(t, err)

	native.SetClock(builder, func() time.Time { return first.BuiltAt.Add(time.Hour) })
	_, err = builder.Build(context.Background(), plan)
	require.NoError(t, err)

	vertex := recorder.last(t)
	assert.True(t, vertex.cached)
	assert.Contains(t, vertex.logs, "DEBUG reusing manifest "+plan.Key.String())

	second, err := store.Get(plan.Key)
	require.NoError(t, err)
	assert.Equal(t, first.BuiltAt, second.BuiltAt)
}

func TestBuilder_RebuildsStaleManifest(t *testing.T) {
	store := cas.NewMemoryStore()
	recorder := &fakeRecorder{}
	builder := native.NewBuilder(store, recorder, quietLogger(t), io.Discard)
	plan := planFor(t, domain.VectorRequest{BlockSize: 2})

	require.NoError(t, store.Put(domain.ArtifactManifest{
		Key:        plan.Key,
		UnitDigest: native.UnitDigest(native.RenderUnit(plan)),
		Builder:    "forge-native/0",
	}))

	_, err := builder.Build(context.Background(), plan)
	require.NoError(t, err)
	assert.False(t, recorder.last(t).cached)

	manifest, err := store.Get(plan.Key)
	require.NoError(t, err)
	assert.Equal(t, native.BuilderVersion, manifest.Builder)
}

func TestBuilder_Failures(t *testing.T) {
	matrix := planFor(t, domain.MatrixRequest{})

	tests := []struct {
		name    string
		plan    domain.BuildPlan
		wantErr error
	}{
		{
			name: "missing dependency",
			plan: domain.NewBuildPlan(
				matrix.Descriptor.WithDependencies(domain.NewDependencySet(domain.DepBCRSMatrix)),
				domain.DependencySet{},
			),
			wantErr: domain.ErrMissingDependency,
		},
		{
			name:    "unresolvable extra",
			plan:    domain.NewBuildPlan(matrix.Descriptor, domain.NewDependencySet("Not A Fragment")),
			wantErr: domain.ErrMissingDependency,
		},
		{
			name:    "unknown role",
			plan:    domain.NewBuildPlan(domain.TypeDescriptor{Name: domain.NewCanonicalName("mystery")}, domain.DependencySet{}),
			wantErr: domain.ErrUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cas.NewMemoryStore()
			recorder := &fakeRecorder{}
			builder := native.NewBuilder(store, recorder, quietLogger(t), io.Discard)

			artifact, err := builder.Build(context.Background(), tt.plan)
			require.Error(t, err)
			assert.Nil(t, artifact)
			require.ErrorIs(t, err, domain.ErrBuildFailure)
			require.ErrorIs(t, err, tt.wantErr)

			var failure *domain.BuildFailureError
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.plan.Descriptor.String(), failure.Descriptor)
			assert.Equal(t, tt.plan.Key, failure.Key)

			vertex := recorder.last(t)
			assert.True(t, vertex.done)
			require.ErrorIs(t, vertex.err, domain.ErrBuildFailure)

			manifests, err := store.List()
			require.NoError(t, err)
			assert.Empty(t, manifests)
		})
	}
}

func TestBuilder_StoreErrorsAreWarnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockArtifactStore(ctrl)
	log := mocks.NewMockLogger(ctrl)
	plan := planFor(t, domain.IndexSetRequest{})

	store.EXPECT().Get(plan.Key).Return(nil, errors.New("disk on fire"))
	log.EXPECT().Warn("failed to read artifact manifest: disk on fire")
	store.EXPECT().Put(gomock.Any()).Return(errors.New("read-only file system"))
	log.EXPECT().Warn("failed to persist artifact manifest: read-only file system")

	builder := native.NewBuilder(store, &fakeRecorder{}, log, io.Discard)
	artifact, err := builder.Build(context.Background(), plan)
	require.NoError(t, err)

	set := constructAs[interface{ Rows() int }](t, artifact, 4, 5)
	assert.Equal(t, 4, set.Rows())
}
