package native

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/domain"
)

// fragmentPattern matches the identifiers the builder can resolve to source fragments.
var fragmentPattern = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_.-]+)+$`)

// RequiredDependencies returns every source fragment the descriptor needs,
// including those of its operands.
func RequiredDependencies(desc domain.TypeDescriptor) domain.DependencySet {
	sets := []domain.DependencySet{domain.BaseDependencies(desc.Role)}
	for _, op := range desc.Operands {
		sets = append(sets, RequiredDependencies(op))
	}
	return domain.UnionDependencies(sets...)
}

// RenderUnit renders the deterministic translation unit for a plan.
// Equal plans always render byte-identical units.
func RenderUnit(plan domain.BuildPlan) string {
	desc := plan.Descriptor
	var b strings.Builder

	b.WriteString("// forge translation unit\n")
	fmt.Fprintf(&b, "unit %s\n", plan.Key)
	fmt.Fprintf(&b, "role %s\n", desc.Role)
	fmt.Fprintf(&b, "type %s\n", desc.Name)
	if desc.Role != domain.RoleIndexSet {
		fmt.Fprintf(&b, "scalar %s\n", desc.Scalar.Normalize())
		fmt.Fprintf(&b, "block %s\n", desc.Block)
	}
	b.WriteString("\n")

	for _, id := range desc.Dependencies.IDs() {
		fmt.Fprintf(&b, "require %s\n", id)
	}
	for _, id := range plan.Extra.IDs() {
		fmt.Fprintf(&b, "require %s // extra\n", id)
	}
	b.WriteString("\n")

	for i, op := range desc.Operands {
		fmt.Fprintf(&b, "operand %d %s\n", i, op.Name)
	}
	if len(desc.Operands) > 0 {
		b.WriteString("\n")
	}

	for _, ctor := range constructors(desc.Role) {
		fmt.Fprintf(&b, "export %s\n", ctor)
	}
	return b.String()
}

// UnitDigest returns the xxhash digest of a rendered unit.
func UnitDigest(unit string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(unit))
}

func constructors(role domain.Role) []string {
	switch role {
	case domain.RoleMatrix:
		return []string{"construct()", "construct(layout)"}
	case domain.RoleBlockVector:
		return []string{"construct(size)", "construct(size, values)"}
	case domain.RoleOperator:
		return []string{"construct(matrix)"}
	case domain.RoleSolverFactory:
		return []string{"construct()", "get(operator, config)"}
	case domain.RoleIndexSet:
		return []string{"construct(rows, cols)"}
	default:
		return nil
	}
}

// unresolvable returns the dependencies of the plan that do not name a valid fragment.
func unresolvable(deps domain.DependencySet) []string {
	var bad []string
	for _, id := range deps.IDs() {
		if !fragmentPattern.MatchString(id) {
			bad = append(bad, id)
		}
	}
	return bad
}
