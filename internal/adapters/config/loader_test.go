package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.ConfigLoader = (*config.FileConfigLoader)(nil)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	loader := config.NewLoader(nil)
	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoad_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, domain.ConfigFileName, `
version: "1"
artifact_dir: build/artifacts
persist: false
solver:
  type: bicgstabsolver
  maxit: 250
  preconditioner:
    type: jacobi
    iterations: 2
`)

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	cfg, err := config.NewLoader(log).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "build/artifacts", cfg.ArtifactDir)
	assert.False(t, cfg.Persist)
	assert.Equal(t, "bicgstabsolver", cfg.Solver.Type())

	maxit, err := cfg.Solver.MaxIterations()
	require.NoError(t, err)
	assert.Equal(t, 250, maxit)

	reduction, err := cfg.Solver.Reduction()
	require.NoError(t, err)
	assert.InDelta(t, 1e-8, reduction, 1e-20, "unset keys keep the default solver values")

	prec, ok := cfg.Solver.Sub(domain.KeyPreconditioner)
	require.True(t, ok)
	assert.Equal(t, "jacobi", prec.Type())
	iterations, err := prec.Int(domain.KeyIterations, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, iterations)
}

func TestLoad_UnknownVersionWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, domain.ConfigFileName, "version: \"7\"\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	cfg, err := config.NewLoader(log).Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.Persist)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "malformed yaml", content: "persist: [", wantErr: domain.ErrConfigParseFailed},
		{name: "wrong type", content: "persist: maybe", wantErr: domain.ErrConfigParseFailed},
		{name: "empty artifact dir", content: "artifact_dir: \"  \"", wantErr: domain.ErrConfigParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, domain.ConfigFileName, tt.content)

			_, err := config.NewLoader(nil).Load(dir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoadSolverConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "solver.yaml", `
type: restartedgmressolver
reduction: "1e-6"
maxit: 100
restart: 10
verbose: 0
preconditioner:
  type: ssor
  relaxation: 1.2
`)

	tree, err := config.NewLoader(nil).LoadSolverConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "restartedgmressolver", tree.Type())
	reduction, err := tree.Reduction()
	require.NoError(t, err)
	assert.InDelta(t, 1e-6, reduction, 1e-18)

	restart, err := tree.Int(domain.KeyRestart, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, restart)

	prec, ok := tree.Sub(domain.KeyPreconditioner)
	require.True(t, ok)
	relaxation, err := prec.Float(domain.KeyRelaxation, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, relaxation, 1e-12)
}

func TestLoadSolverConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	loader := config.NewLoader(nil)

	_, err := loader.LoadSolverConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())

	path := writeFile(t, dir, "bad.yaml", "type: [")
	_, err = loader.LoadSolverConfig(path)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
}
