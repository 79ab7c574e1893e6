package app

import (
	"context"
	"fmt"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/ui/style"
	"go.trai.ch/zerr"
)

// DefaultSolveSize is the number of block rows of the solve system.
const DefaultSolveSize = 1000

// SolveOptions configuration for the Solve method.
type SolveOptions struct {
	// Size is the number of block rows, DefaultSolveSize when zero.
	Size int
	// Block is the square block shape, "1" when empty.
	Block string
	// Scalar is float64, float32 or empty for the default.
	Scalar string
	// ConfigPath names a YAML solver configuration replacing the one from forge.yaml.
	ConfigPath string
	// Type overrides the solver type of the configuration.
	Type string
	// Extra lists caller supplied dependencies of the solver factory.
	Extra []string
	// NoFastPath builds every artifact instead of using the pre-built ones.
	NoFastPath bool
}

// SolveReport is the outcome of Solve.
type SolveReport struct {
	Result domain.InverseOperatorResult
	// Residual is the recomputed two-norm of rhs - A x.
	Residual float64
	Config   domain.SolverConfig
	// Builds is the number of artifacts built by this process so far.
	Builds int64
}

// Solve assembles the tridiagonal system tridiag(-1, 2, -1) with a right-hand side of ones
// and solves it with the configured solver.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Solve(ctx context.Context, opts SolveOptions) (SolveReport, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return SolveReport{}, err
	}
	solverConfig := cfg.Solver
	if opts.ConfigPath != "" {
		solverConfig, err = a.configLoader.LoadSolverConfig(opts.ConfigPath)
		if err != nil {
			return SolveReport{}, err
		}
	}
	if opts.Type != "" {
		solverConfig = solverConfig.Merge(domain.SolverConfig{domain.KeyType: opts.Type})
	}

	size := opts.Size
	if size == 0 {
		size = DefaultSolveSize
	}
	if size < 0 {
		return SolveReport{}, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "size must be positive"), "size", size)
	}

	d := a.dispatcher
	if opts.NoFastPath {
		d = d.WithoutFastPath()
	}

	describe := DescribeOptions{Block: opts.Block, Scalar: opts.Scalar, Extra: opts.Extra}
	matrixReq, err := a.request(ctx, d, RoleMatrix, describe)
	if err != nil {
		return SolveReport{}, err
	}
	vectorReq, err := a.request(ctx, d, RoleVector, describe)
	if err != nil {
		return SolveReport{}, err
	}
	operatorReq, err := a.request(ctx, d, RoleOperator, describe)
	if err != nil {
		return SolveReport{}, err
	}
	solverReq, err := a.request(ctx, d, RoleSolver, describe)
	if err != nil {
		return SolveReport{}, err
	}
	if err := warm(ctx, d, matrixReq, vectorReq, operatorReq, solverReq); err != nil {
		return SolveReport{}, err
	}

	req := matrixReq.(domain.MatrixRequest)
	m, err := d.ConstructMatrix(ctx, req, domain.MatrixLayout{Rows: size, Cols: size, AvgNonZeros: 3})
	if err != nil {
		return SolveReport{}, err
	}
	a.logger.Debug(fmt.Sprintf("assembling %d block rows of %s", size, m.Descriptor()))
	if err := assembleTridiagonal(m, size); err != nil {
		return SolveReport{}, err
	}

	rhs, err := d.ConstructVector(ctx, vectorReq.(domain.VectorRequest), size, nil)
	if err != nil {
		return SolveReport{}, err
	}
	rhs.Fill(1)
	x := rhs.Copy()
	x.Fill(0)

	op, err := d.ConstructOperator(ctx, m, rhs, nil)
	if err != nil {
		return SolveReport{}, err
	}
	solver, err := d.GetSolver(ctx, op, solverConfig, solverReq.(domain.SolverFactoryRequest).Extra.IDs()...)
	if err != nil {
		return SolveReport{}, err
	}

	a.logger.Debug(fmt.Sprintf("solving with %s", solverConfig.Type()))
	res, err := solver.Apply(x, rhs.Copy())
	if err != nil {
		return SolveReport{}, zerr.With(zerr.Wrap(err, "solve failed"), "solver", solver.Category())
	}

	defect := rhs.Copy()
	if err := op.ApplyScaleAdd(-1, x, defect); err != nil {
		return SolveReport{}, err
	}

	report := SolveReport{
		Result:   res,
		Residual: defect.TwoNorm(),
		Config:   solverConfig,
		Builds:   a.cache.Builds(),
	}
	a.printReport(solver, m, report)
	return report, nil
}

// assembleTridiagonal fills m with 2 on the diagonal and -1 on both off-diagonals.
func assembleTridiagonal(m ports.Matrix, n int) error {
	r := m.BlockShape().Rows
	for i := range n {
		for k := range r {
			row := i*r + k
			if err := m.Set(row, row, 2); err != nil {
				return err
			}
			if i > 0 {
				if err := m.Set(row, row-r, -1); err != nil {
					return err
				}
			}
			if i < n-1 {
				if err := m.Set(row, row+r, -1); err != nil {
					return err
				}
			}
		}
	}
	_, err := m.Compress()
	return err
}

func (a *App) printReport(solver ports.InverseOperator, m ports.Matrix, report SolveReport) {
	res := report.Result
	r := a.renderer()

	status := style.Status(r, res.Converged, "converged")
	if !res.Converged {
		status = style.Status(r, false, "not converged")
	}
	_, _ = fmt.Fprintln(a.out, status)

	prec := "identity"
	if named, ok := solver.(interface{ Preconditioner() string }); ok {
		prec = named.Preconditioner()
	}
	a.printFields([][2]string{
		{"matrix", m.Descriptor().String()},
		{"solver", solver.Category()},
		{"preconditioner", prec},
		{"iterations", fmt.Sprintf("%d", res.Iterations)},
		{"reduction", fmt.Sprintf("%.3e", res.Reduction)},
		{"residual", fmt.Sprintf("%.3e", report.Residual)},
		{"rate", fmt.Sprintf("%.4f", res.ConvergenceRate)},
		{"builds", fmt.Sprintf("%d", report.Builds)},
	})
}
