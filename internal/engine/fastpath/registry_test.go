package fastpath_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/fastpath"
	"go.trai.ch/forge/internal/engine/resolver"
)

func artifactFor(ctrl *gomock.Controller, plan domain.BuildPlan) *mocks.MockArtifact {
	a := mocks.NewMockArtifact(ctrl)
	a.EXPECT().Descriptor().Return(plan.Descriptor).AnyTimes()
	a.EXPECT().Key().Return(plan.Key).AnyTimes()
	return a
}

type scalarPlans struct {
	matrix, vector, operator, solver domain.BuildPlan
}

func planScalars(t *testing.T) scalarPlans {
	t.Helper()
	r := resolver.New()
	var p scalarPlans
	var err error
	p.matrix, err = r.Plan(domain.MatrixRequest{})
	require.NoError(t, err)
	p.vector, err = r.Plan(domain.VectorRequest{BlockSize: 1})
	require.NoError(t, err)
	p.operator, err = r.Plan(domain.OperatorRequest{Matrix: p.matrix.Descriptor, Domain: p.vector.Descriptor})
	require.NoError(t, err)
	p.solver, err = r.Plan(domain.SolverFactoryRequest{Operator: &p.operator.Descriptor})
	require.NoError(t, err)
	return p
}

func TestSeed_RegistersEveryScalarRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPrebuiltProvider(ctrl)
	plans := planScalars(t)

	for _, plan := range []domain.BuildPlan{plans.matrix, plans.vector, plans.operator, plans.solver} {
		provider.EXPECT().Prebuilt(plan).Return(artifactFor(ctrl, plan), true)
	}

	reg := fastpath.NewRegistry()
	require.NoError(t, fastpath.Seed(reg, resolver.New(), provider))
	assert.Equal(t, 4, reg.Len())
}

func TestSeed_SkipsMissingEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockPrebuiltProvider(ctrl)
	plans := planScalars(t)

	provider.EXPECT().Prebuilt(plans.matrix).Return(artifactFor(ctrl, plans.matrix), true)
	provider.EXPECT().Prebuilt(gomock.Any()).Return(nil, false).Times(3)

	reg := fastpath.NewRegistry()
	require.NoError(t, fastpath.Seed(reg, resolver.New(), provider))
	assert.Equal(t, 1, reg.Len())
}

func TestLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := planScalars(t)
	r := resolver.New()

	reg := fastpath.NewRegistry()
	matrix := artifactFor(ctrl, plans.matrix)
	vector := artifactFor(ctrl, plans.vector)
	operator := artifactFor(ctrl, plans.operator)
	solver := artifactFor(ctrl, plans.solver)
	for _, a := range []*mocks.MockArtifact{matrix, vector, operator, solver} {
		require.NoError(t, reg.Register(a))
	}

	block2, err := r.Plan(domain.MatrixRequest{Block: &domain.BlockShape{Rows: 2, Cols: 2}})
	require.NoError(t, err)
	vec2, err := r.Plan(domain.VectorRequest{BlockSize: 2})
	require.NoError(t, err)
	op2, err := r.Plan(domain.OperatorRequest{Matrix: block2.Descriptor, Domain: vec2.Descriptor})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  domain.Request
		want any
	}{
		{"default matrix", domain.MatrixRequest{}, matrix},
		{"explicit scalar matrix", domain.MatrixRequest{Block: &domain.ScalarBlock, Scalar: domain.ScalarFloat64}, matrix},
		{"float32 matrix", domain.MatrixRequest{Scalar: domain.ScalarFloat32}, nil},
		{"block matrix", domain.MatrixRequest{Block: &domain.BlockShape{Rows: 2, Cols: 2}}, nil},
		{"zero block matrix", domain.MatrixRequest{Block: &domain.BlockShape{Rows: 0, Cols: 1}}, nil},
		{"scalar vector", domain.VectorRequest{BlockSize: 1}, vector},
		{"block vector", domain.VectorRequest{BlockSize: 3}, nil},
		{"scalar operator", domain.OperatorRequest{Matrix: plans.matrix.Descriptor, Domain: plans.vector.Descriptor}, operator},
		{
			"scalar operator with range",
			domain.OperatorRequest{Matrix: plans.matrix.Descriptor, Domain: plans.vector.Descriptor, Range: &plans.vector.Descriptor},
			operator,
		},
		{"block operator", domain.OperatorRequest{Matrix: block2.Descriptor, Domain: vec2.Descriptor}, nil},
		{"scalar solver", domain.SolverFactoryRequest{Operator: &plans.operator.Descriptor}, solver},
		{
			"scalar solver with extras",
			domain.SolverFactoryRequest{Operator: &plans.operator.Descriptor, Extra: domain.NewDependencySet("custom/x")},
			nil,
		},
		{"block solver", domain.SolverFactoryRequest{Operator: &op2.Descriptor}, nil},
		{"solver without operator", domain.SolverFactoryRequest{}, nil},
		{"index set", domain.IndexSetRequest{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.Lookup(tt.req)
			if tt.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}
			require.True(t, ok)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := planScalars(t)
	reg := fastpath.NewRegistry()

	require.NoError(t, reg.Register(artifactFor(ctrl, plans.matrix)))
	err := reg.Register(artifactFor(ctrl, plans.matrix))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateFastPath))
}

func TestRegister_RejectsBlockShapes(t *testing.T) {
	ctrl := gomock.NewController(t)
	plan, err := resolver.New().Plan(domain.MatrixRequest{Block: &domain.BlockShape{Rows: 3, Cols: 3}})
	require.NoError(t, err)

	err = fastpath.NewRegistry().Register(artifactFor(ctrl, plan))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
