package native_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/native"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/resolver"
)

// fakeRecorder keeps every recorded vertex in memory.
type fakeRecorder struct {
	mu       sync.Mutex
	vertices []*fakeVertex
}

func (r *fakeRecorder) Record(_ context.Context, id, name string) ports.Vertex {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := &fakeVertex{id: id, name: name}
	r.vertices = append(r.vertices, v)
	return v
}

func (r *fakeRecorder) Summary() domain.BuildSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.BuildSummary{Total: len(r.vertices)}
}

func (r *fakeRecorder) Close() error { return nil }

func (r *fakeRecorder) last(t *testing.T) *fakeVertex {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.vertices)
	return r.vertices[len(r.vertices)-1]
}

type fakeVertex struct {
	id, name string
	stdout   bytes.Buffer
	logs     []string
	cached   bool
	done     bool
	err      error
}

func (v *fakeVertex) Stdout() io.Writer { return &v.stdout }

func (v *fakeVertex) Log(level domain.LogLevel, msg string) {
	v.logs = append(v.logs, level.String()+" "+msg)
}

func (v *fakeVertex) Complete(err error) {
	v.done = true
	v.err = err
}

func (v *fakeVertex) Cached() { v.cached = true }

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func newTestBuilder(t *testing.T) *native.Builder {
	t.Helper()
	return native.NewBuilder(cas.NewMemoryStore(), &fakeRecorder{}, quietLogger(t), io.Discard)
}

func planFor(t *testing.T, req domain.Request) domain.BuildPlan {
	t.Helper()
	plan, err := resolver.New().Plan(req)
	require.NoError(t, err)
	return plan
}

func artifactFor(t *testing.T, req domain.Request) ports.Artifact {
	t.Helper()
	artifact, err := newTestBuilder(t).Build(context.Background(), planFor(t, req))
	require.NoError(t, err)
	return artifact
}

func constructAs[T any](t *testing.T, artifact ports.Artifact, args ...any) T {
	t.Helper()
	instance, err := artifact.Construct(args...)
	require.NoError(t, err)
	typed, ok := instance.(T)
	require.True(t, ok, "unexpected instance %T", instance)
	return typed
}

func newMatrix(t *testing.T, block domain.BlockShape, args ...any) ports.Matrix {
	t.Helper()
	return constructAs[ports.Matrix](t, artifactFor(t, domain.MatrixRequest{Block: &block}), args...)
}

func newVector(t *testing.T, blockSize, blocks int, initial []float64) ports.BlockVector {
	t.Helper()
	return constructAs[ports.BlockVector](t, artifactFor(t, domain.VectorRequest{BlockSize: blockSize}), blocks, initial)
}

// laplacian assembles the compressed 1D Poisson matrix tridiag(-1, 2, -1) of size n.
func laplacian(t *testing.T, n int) ports.Matrix {
	t.Helper()
	m := newMatrix(t, domain.ScalarBlock, domain.MatrixLayout{Rows: n, Cols: n, AvgNonZeros: 3, Overflow: 0.1})
	for i := range n {
		require.NoError(t, m.Set(i, i, 2))
		if i > 0 {
			require.NoError(t, m.Set(i, i-1, -1))
		}
		if i < n-1 {
			require.NoError(t, m.Set(i, i+1, -1))
		}
	}
	_, err := m.Compress()
	require.NoError(t, err)
	return m
}

func newOperator(t *testing.T, m ports.Matrix) ports.LinearOperator {
	t.Helper()
	vec := planFor(t, domain.VectorRequest{BlockSize: m.BlockShape().Cols})
	req := domain.OperatorRequest{Matrix: m.Descriptor(), Domain: vec.Descriptor}
	return constructAs[ports.LinearOperator](t, artifactFor(t, req), m)
}

func newFactory(t *testing.T, op ports.LinearOperator) ports.SolverFactory {
	t.Helper()
	desc := op.Descriptor()
	return constructAs[ports.SolverFactory](t, artifactFor(t, domain.SolverFactoryRequest{Operator: &desc}))
}

func newVectorOf(t *testing.T, scalar domain.ScalarKind, initial []float64) ports.BlockVector {
	t.Helper()
	artifact := artifactFor(t, domain.VectorRequest{BlockSize: 1, Scalar: scalar})
	return constructAs[ports.BlockVector](t, artifact, len(initial), initial)
}
