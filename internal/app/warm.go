package app

import (
	"context"
	"fmt"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/style"
)

// WarmShape builds the matrix, vector, operator and solver factory artifacts for one
// block shape and prints their keys. It returns the number of artifacts it built.
func (a *App) WarmShape(ctx context.Context, opts DescribeOptions) (int64, error) {
	d := a.dispatcher
	if opts.NoFastPath {
		d = d.WithoutFastPath()
	}

	roles := []string{RoleMatrix, RoleVector, RoleOperator, RoleSolver}
	reqs := make([]domain.Request, 0, len(roles))
	for _, role := range roles {
		req, err := a.request(ctx, d, role, opts)
		if err != nil {
			return 0, err
		}
		reqs = append(reqs, req)
	}

	before := a.cache.Builds()
	if err := warm(ctx, d, reqs...); err != nil {
		return 0, err
	}
	built := a.cache.Builds() - before

	rows := make([][2]string, 0, len(reqs))
	for _, req := range reqs {
		plan, err := d.Describe(ctx, req)
		if err != nil {
			return built, err
		}
		rows = append(rows, [2]string{plan.Descriptor.Role.String(), plan.Key.String()})
	}
	a.printFields(rows)
	_, _ = fmt.Fprintln(a.out, style.Status(a.renderer(), true, fmt.Sprintf("built %d artifacts", built)))
	return built, nil
}
