package native

import (
	"io"
	"math"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Solver type names accepted under the type key.
const (
	SolverLoop           = "loopsolver"
	SolverGradient       = "gradientsolver"
	SolverCG             = "cgsolver"
	SolverBiCGSTAB       = "bicgstabsolver"
	SolverMINRES         = "minressolver"
	SolverRestartedGMRes = "restartedgmressolver"
)

// DefaultRestart is the Krylov subspace size of restarted GMRes when restart is unset.
const DefaultRestart = 20

// method runs one iterative algorithm. b holds the initial defect on entry and the final defect on return.
type method[T Float] func(s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error

func methods[T Float]() map[string]method[T] {
	return map[string]method[T]{
		SolverLoop:           loopSolve[T],
		SolverGradient:       gradientSolve[T],
		SolverCG:             cgSolve[T],
		SolverBiCGSTAB:       bicgstabSolve[T],
		SolverMINRES:         minresSolve[T],
		SolverRestartedGMRes: gmresSolve[T],
	}
}

// InverseOperator solves A x = b with one configured iterative method.
type InverseOperator[T Float] struct {
	desc      domain.TypeDescriptor
	name      string
	op        *MatrixAdapter[T]
	prec      preconditioner[T]
	run       method[T]
	reduction float64
	maxit     int
	verbose   int
	restart   int
	out       io.Writer
}

var _ ports.InverseOperator = (*InverseOperator[float64])(nil)

// Descriptor implements ports.Typed. It is the descriptor of the factory that created the solver.
func (s *InverseOperator[T]) Descriptor() domain.TypeDescriptor { return s.desc }

// Category names the solver algorithm.
func (s *InverseOperator[T]) Category() string { return s.name }

// Preconditioner names the configured preconditioner.
func (s *InverseOperator[T]) Preconditioner() string { return s.prec.category() }

// Apply solves A x = b starting from the current x.
// b is overwritten with the final defect. Missing the reduction target within maxit
// iterations is reported in the result, not as an error.
func (s *InverseOperator[T]) Apply(x, b ports.BlockVector) (domain.InverseOperatorResult, error) {
	xv, err := asVector[T](x)
	if err != nil {
		return domain.InverseOperatorResult{}, err
	}
	bv, err := asVector[T](b)
	if err != nil {
		return domain.InverseOperatorResult{}, err
	}
	a := s.op.matrix
	if len(xv.data) != a.m*a.c {
		return domain.InverseOperatorResult{}, sizeError(len(xv.data), a.m*a.c)
	}
	if len(bv.data) != a.n*a.r {
		return domain.InverseOperatorResult{}, sizeError(len(bv.data), a.n*a.r)
	}

	// b becomes the defect b - A x.
	if err := a.UsMv(-1, xv, bv); err != nil {
		return domain.InverseOperatorResult{}, err
	}

	mon := &monitor{
		name:      s.name,
		out:       s.out,
		verbose:   s.verbose,
		reduction: s.reduction,
		maxit:     s.maxit,
	}
	if mon.begin(bv.TwoNorm()) {
		return mon.result(), nil
	}
	err = s.run(s, xv, bv, mon)
	return mon.result(), err
}

func (s *InverseOperator[T]) mv(x, y *BlockVector[T]) {
	clear(y.data)
	_ = s.op.matrix.usmv(1, x, y)
}

func breakdown(solver, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrBreakdown, reason), "solver", solver)
}

func loopSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	v := x.zeroLike()
	for {
		s.prec.apply(v, b)
		x.axpy(1, v)
		_ = s.op.matrix.usmv(-1, v, b)
		if mon.step(b.TwoNorm()) {
			return nil
		}
	}
}

func gradientSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	p, q := x.zeroLike(), b.zeroLike()
	for {
		s.prec.apply(p, b)
		s.mv(p, q)
		pq := p.dot(q)
		if pq == 0 {
			return breakdown(s.name, "search direction has zero energy")
		}
		lambda := p.dot(b) / pq
		x.axpy(lambda, p)
		b.axpy(-lambda, q)
		if mon.step(b.TwoNorm()) {
			return nil
		}
	}
}

func cgSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	p, q, z := x.zeroLike(), b.zeroLike(), x.zeroLike()
	s.prec.apply(p, b)
	rhoLast := p.dot(b)
	for {
		s.mv(p, q)
		pq := p.dot(q)
		if pq == 0 {
			return breakdown(s.name, "search direction has zero energy")
		}
		alpha := rhoLast / pq
		x.axpy(alpha, p)
		b.axpy(-alpha, q)
		if mon.step(b.TwoNorm()) {
			return nil
		}

		s.prec.apply(z, b)
		rho := z.dot(b)
		beta := rho / rhoLast
		for i := range p.data {
			p.data[i] = z.data[i] + T(beta)*p.data[i]
		}
		rhoLast = rho
	}
}

func bicgstabSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	rt := b.clone()
	p, v := b.zeroLike(), b.zeroLike()
	phat, shat, t := x.zeroLike(), x.zeroLike(), b.zeroLike()
	rhoOld, alpha, omega := 1.0, 1.0, 1.0

	for first := true; ; first = false {
		rho := rt.dot(b)
		if rho == 0 {
			return breakdown(s.name, "rho vanished")
		}
		if first {
			p.copyFrom(b)
		} else {
			if omega == 0 {
				return breakdown(s.name, "omega vanished")
			}
			beta := (rho / rhoOld) * (alpha / omega)
			for i := range p.data {
				p.data[i] = b.data[i] + T(beta)*(p.data[i]-T(omega)*v.data[i])
			}
		}

		s.prec.apply(phat, p)
		s.mv(phat, v)
		rtv := rt.dot(v)
		if rtv == 0 {
			return breakdown(s.name, "projection onto shadow residual vanished")
		}
		alpha = rho / rtv
		x.axpy(alpha, phat)
		b.axpy(-alpha, v)
		if def := b.TwoNorm(); mon.reached(def) {
			mon.step(def)
			return nil
		}

		s.prec.apply(shat, b)
		s.mv(shat, t)
		tt := t.dot(t)
		if tt == 0 {
			return breakdown(s.name, "stabilisation direction vanished")
		}
		omega = t.dot(b) / tt
		x.axpy(omega, shat)
		b.axpy(-omega, t)
		rhoOld = rho
		if mon.step(b.TwoNorm()) {
			return nil
		}
	}
}

// minresSolve is preconditioned MINRES. The Lanczos recurrence only estimates the
// preconditioned residual, so the true defect is recomputed from the right-hand side every step.
func minresSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	// b holds the initial defect, so the right-hand side is b + A x.
	rhs := b.clone()
	_ = s.op.matrix.usmv(1, x, rhs)

	r1, r2 := b.clone(), b.clone()
	y := x.zeroLike()
	s.prec.apply(y, r1)
	beta1 := r1.dot(y)
	if beta1 <= 0 {
		return breakdown(s.name, "preconditioner is not positive definite")
	}
	beta1 = math.Sqrt(beta1)

	v, w, w1, w2 := x.zeroLike(), x.zeroLike(), x.zeroLike(), x.zeroLike()
	av := b.zeroLike()
	oldb, beta, dbar, epsln, phibar := 0.0, beta1, 0.0, 0.0, beta1
	cs, sn := -1.0, 0.0

	for it := 1; ; it++ {
		for i := range v.data {
			v.data[i] = y.data[i] / T(beta)
		}
		s.mv(v, av)
		if it >= 2 {
			av.axpy(-beta/oldb, r1)
		}
		alfa := v.dot(av)
		av.axpy(-alfa/beta, r2)
		r1.copyFrom(r2)
		r2.copyFrom(av)
		s.prec.apply(y, r2)
		oldb = beta
		bb := r2.dot(y)
		if bb < 0 {
			return breakdown(s.name, "preconditioner is not positive definite")
		}
		beta = math.Sqrt(bb)

		oldeps := epsln
		delta := cs*dbar + sn*alfa
		gbar := sn*dbar - cs*alfa
		epsln = sn * beta
		dbar = -cs * beta
		gamma := math.Max(math.Hypot(gbar, beta), math.SmallestNonzeroFloat64)
		cs, sn = gbar/gamma, beta/gamma
		phi := cs * phibar
		phibar = sn * phibar

		w1.copyFrom(w2)
		w2.copyFrom(w)
		for i := range w.data {
			w.data[i] = T((float64(v.data[i]) - oldeps*float64(w1.data[i]) - delta*float64(w2.data[i])) / gamma)
		}
		x.axpy(phi, w)

		b.copyFrom(rhs)
		_ = s.op.matrix.usmv(-1, x, b)
		if mon.step(b.TwoNorm()) || beta == 0 {
			return nil
		}
	}
}

// gmresSolve is right preconditioned GMRes restarted every s.restart iterations.
// Right preconditioning keeps the Arnoldi estimate equal to the true defect norm.
func gmresSolve[T Float](s *InverseOperator[T], x, b *BlockVector[T], mon *monitor) error {
	m := s.restart
	basis := make([]*BlockVector[T], m+1)
	for i := range basis {
		basis[i] = b.zeroLike()
	}
	zs := make([]*BlockVector[T], m)
	for i := range zs {
		zs[i] = x.zeroLike()
	}
	h := make([][]float64, m+1)
	for i := range h {
		h[i] = make([]float64, m)
	}
	cs, sn, g := make([]float64, m), make([]float64, m), make([]float64, m+1)
	w := b.zeroLike()

	for {
		beta := b.TwoNorm()
		basis[0].copyFrom(b)
		basis[0].Scale(1 / beta)
		clear(g)
		g[0] = beta

		k, done := 0, false
		for j := range m {
			s.prec.apply(zs[j], basis[j])
			s.mv(zs[j], w)
			for i := 0; i <= j; i++ {
				h[i][j] = w.dot(basis[i])
				w.axpy(-h[i][j], basis[i])
			}
			hn := w.TwoNorm()
			h[j+1][j] = hn

			for i := range j {
				h[i][j], h[i+1][j] = cs[i]*h[i][j]+sn[i]*h[i+1][j], -sn[i]*h[i][j]+cs[i]*h[i+1][j]
			}
			denom := math.Hypot(h[j][j], h[j+1][j])
			if denom == 0 {
				return breakdown(s.name, "Hessenberg column vanished")
			}
			cs[j], sn[j] = h[j][j]/denom, h[j+1][j]/denom
			h[j][j], h[j+1][j] = denom, 0
			g[j+1] = -sn[j] * g[j]
			g[j] *= cs[j]

			k = j + 1
			// A vanishing hn means the subspace already contains the solution.
			if done = mon.step(math.Abs(g[j+1])) || hn == 0; done {
				break
			}
			basis[j+1].copyFrom(w)
			basis[j+1].Scale(1 / hn)
		}

		// Back substitution for the least squares update.
		y := make([]float64, k)
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for l := i + 1; l < k; l++ {
				sum -= h[i][l] * y[l]
			}
			y[i] = sum / h[i][i]
		}
		for i := range k {
			x.axpy(y[i], zs[i])
			s.mv(zs[i], w)
			b.axpy(-y[i], w)
		}
		mon.def = b.TwoNorm()

		if done {
			mon.converged = mon.reached(mon.def)
			return nil
		}
	}
}
