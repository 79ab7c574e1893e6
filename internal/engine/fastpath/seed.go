package fastpath

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/resolver"
)

// Seed plans the scalar default request of every role and registers the artifact
// the provider has pre-built for it. Roles without a pre-built artifact are skipped.
// Operator and solver factory requests are derived from the descriptors planned before them.
func Seed(reg *Registry, res *resolver.Resolver, provider ports.PrebuiltProvider) error {
	matrix, err := res.Plan(domain.MatrixRequest{})
	if err != nil {
		return err
	}
	vector, err := res.Plan(domain.VectorRequest{BlockSize: 1})
	if err != nil {
		return err
	}
	operator, err := res.Plan(domain.OperatorRequest{Matrix: matrix.Descriptor, Domain: vector.Descriptor})
	if err != nil {
		return err
	}
	solver, err := res.Plan(domain.SolverFactoryRequest{Operator: &operator.Descriptor})
	if err != nil {
		return err
	}

	for _, plan := range []domain.BuildPlan{matrix, vector, operator, solver} {
		artifact, ok := provider.Prebuilt(plan)
		if !ok {
			continue
		}
		if err := reg.Register(artifact); err != nil {
			return err
		}
	}
	return nil
}
