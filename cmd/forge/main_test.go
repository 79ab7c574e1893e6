package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/cas"
	"go.trai.ch/forge/internal/adapters/native"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/adapters/telemetry/progrock"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/buildcache"
	"go.trai.ch/forge/internal/engine/dispatcher"
	"go.trai.ch/forge/internal/engine/fastpath"
	"go.trai.ch/forge/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	store  *mocks.MockArtifactStore
	cache  *buildcache.Cache
	app    *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	f := &fixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
		store:  mocks.NewMockArtifactStore(ctrl),
		cache:  buildcache.New(telemetry.NewNoOpTracer()),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	recorder := progrock.New(f.logger)
	res := resolver.New()
	reg := fastpath.NewRegistry()
	require.NoError(t, fastpath.Seed(reg, res, native.NewPrebuilt(io.Discard)))
	builder := native.NewBuilder(cas.NewMemoryStore(), recorder, f.logger, io.Discard)

	f.app = app.New(dispatcher.New(res, reg, f.cache, builder), f.cache, f.store, f.loader, f.logger, recorder)
	return f
}

func (f *fixture) provider() ComponentProvider {
	return func(_ context.Context) (*app.Components, func(), error) {
		return app.NewComponents(f.app, f.logger), func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	f := newFixture(t)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, stderr, f.provider())

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "forge version")
	assert.Empty(t, stderr.String())
}

// TestRun_CommandOutput verifies that application output goes to the given stdout.
func TestRun_CommandOutput(t *testing.T) {
	f := newFixture(t)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"describe", "matrix"}, stdout, io.Discard, f.provider())

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "bcrs_matrix<field_matrix<float64,1,1>>")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrUnknownRole)
	})

	exitCode := run(context.Background(), []string{"describe", "tensor"}, io.Discard, io.Discard, f.provider())
	assert.Equal(t, 1, exitCode)
}

// TestRun_NotConverged verifies that a failed solve exits with 1 without logging an error.
func TestRun_NotConverged(t *testing.T) {
	f := newFixture(t)
	cfg := domain.DefaultConfig()
	cfg.Solver = cfg.Solver.Merge(domain.SolverConfig{domain.KeyMaxIt: 1})
	f.loader.EXPECT().Load(".").Return(cfg, nil)

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"solve", "-n", "50"}, stdout, io.Discard, f.provider())

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stdout.String(), "not converged")
}

// TestRun_ClosesApplication verifies that the build cache is shut down after the command.
func TestRun_ClosesApplication(t *testing.T) {
	f := newFixture(t)

	exitCode := run(context.Background(), []string{"version"}, io.Discard, io.Discard, f.provider())
	require.Equal(t, 0, exitCode)

	_, err := f.app.WarmShape(context.Background(), app.DescribeOptions{NoFastPath: true})
	assert.ErrorIs(t, err, domain.ErrCacheShutdown)
}

// TestRun_Signal verifies that a canceled context stops the command.
func TestRun_Signal(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	blockCh := make(chan struct{})
	f.loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(_ string) (*domain.Config, error) {
		select {
		case <-blockCh:
			return nil, context.Canceled
		case <-time.After(5 * time.Second):
			return nil, errors.New("timeout in mock")
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan int)

	go func() {
		errCh <- run(ctx, []string{"solve"}, io.Discard, io.Discard, f.provider())
	}()

	// Wait a bit to ensure run() reaches Load()
	time.Sleep(100 * time.Millisecond)

	cancel()
	close(blockCh)

	select {
	case ret := <-errCh:
		assert.NotEqual(t, 0, ret)
	case <-time.After(2 * time.Second):
		t.Fatal("TestRun_Signal timed out waiting for run() to return")
	}
}
