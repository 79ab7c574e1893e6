package dispatcher_test

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/native"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/adapters/telemetry/progrock"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/buildcache"
	"go.trai.ch/forge/internal/engine/dispatcher"
	"go.trai.ch/forge/internal/engine/fastpath"
	"go.trai.ch/forge/internal/engine/resolver"
)

// countingBuilder forwards to the native builder and counts builds per key.
type countingBuilder struct {
	next  ports.ArtifactBuilder
	total atomic.Int32

	mu    sync.Mutex
	byKey map[domain.CacheKey]int
}

func (b *countingBuilder) Build(ctx context.Context, plan domain.BuildPlan) (ports.Artifact, error) {
	b.total.Add(1)
	b.mu.Lock()
	b.byKey[plan.Key]++
	b.mu.Unlock()
	return b.next.Build(ctx, plan)
}

func (b *countingBuilder) builds(key domain.CacheKey) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.byKey[key]
}

type fixture struct {
	dispatcher *dispatcher.Dispatcher
	builder    *countingBuilder
	cache      *buildcache.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	res := resolver.New()
	reg := fastpath.NewRegistry()
	require.NoError(t, fastpath.Seed(reg, res, native.NewPrebuilt(io.Discard)))

	builder := &countingBuilder{
		next:  native.NewBuilder(cas.NewMemoryStore(), progrock.New(log), log, io.Discard),
		byKey: make(map[domain.CacheKey]int),
	}
	cache := buildcache.New(telemetry.NewNoOpTracer())
	return &fixture{
		dispatcher: dispatcher.New(res, reg, cache, builder),
		builder:    builder,
		cache:      cache,
	}
}

// newMockDispatcher returns a dispatcher whose builder fails the test on any call
// not expected by the caller.
func newMockDispatcher(t *testing.T) (*dispatcher.Dispatcher, *mocks.MockArtifactBuilder) {
	t.Helper()
	builder := mocks.NewMockArtifactBuilder(gomock.NewController(t))
	res := resolver.New()
	reg := fastpath.NewRegistry()
	require.NoError(t, fastpath.Seed(reg, res, native.NewPrebuilt(io.Discard)))
	return dispatcher.New(res, reg, buildcache.New(telemetry.NewNoOpTracer()), builder), builder
}

func shape(rows, cols int) *domain.BlockShape {
	return &domain.BlockShape{Rows: rows, Cols: cols}
}

func cgConfig() domain.SolverConfig {
	return domain.SolverConfig{
		domain.KeyType:      "cgsolver",
		domain.KeyReduction: 1e-8,
		domain.KeyMaxIt:     1000,
	}
}

// assemble builds the compressed matrix tridiag(off, diag, off) of n block rows
// with diag and off placed on the block diagonals.
func assemble(
	ctx context.Context,
	t *testing.T,
	d *dispatcher.Dispatcher,
	req domain.MatrixRequest,
	n int,
	diag, off float64,
) ports.Matrix {
	t.Helper()
	m, err := d.ConstructMatrix(ctx, req, domain.MatrixLayout{Rows: n, Cols: n, AvgNonZeros: 3})
	require.NoError(t, err)

	r := req.Shape().Rows
	for i := range n {
		for k := range r {
			row := i*r + k
			require.NoError(t, m.Set(row, row, diag))
			if i > 0 {
				require.NoError(t, m.Set(row, row-r, off))
			}
			if i < n-1 {
				require.NoError(t, m.Set(row, row+r, off))
			}
		}
	}
	_, err = m.Compress()
	require.NoError(t, err)
	return m
}
