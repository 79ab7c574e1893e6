package native

import (
	"io"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Prebuilt supplies the artifacts shipped with the library for the scalar default shapes.
// They are instantiated by the same code as built artifacts, without a build step.
type Prebuilt struct {
	out io.Writer
}

var _ ports.PrebuiltProvider = (*Prebuilt)(nil)

// NewPrebuilt creates a new Prebuilt provider. Verbose solver output is written to out.
func NewPrebuilt(out io.Writer) *Prebuilt {
	return &Prebuilt{out: out}
}

// Prebuilt returns the shipped artifact for plan. Only float64 1x1 types of the matrix,
// block vector, operator and solver factory roles are shipped, and solver factories only
// without extra fragments.
func (p *Prebuilt) Prebuilt(plan domain.BuildPlan) (ports.Artifact, bool) {
	desc := plan.Descriptor
	if desc.Block != domain.ScalarBlock || desc.Scalar != domain.ScalarFloat64 || !plan.Extra.Empty() {
		return nil, false
	}
	switch desc.Role {
	case domain.RoleMatrix, domain.RoleBlockVector, domain.RoleOperator, domain.RoleSolverFactory:
	default:
		return nil, false
	}
	if !plan.Dependencies().ContainsAll(RequiredDependencies(desc)) {
		return nil, false
	}

	artifact, err := instantiateFor[float64](plan, p.out)
	if err != nil {
		return nil, false
	}
	return artifact, true
}
