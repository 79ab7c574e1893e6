// Package dispatcher is the caller facing entry point for constructing linear algebra objects.
package dispatcher

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/buildcache"
	"go.trai.ch/forge/internal/engine/fastpath"
	"go.trai.ch/forge/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// Dispatcher resolves requests to artifacts and constructs instances from them.
// Requests served by the fast path registry skip resolution and building entirely.
// Everything else is planned by the resolver and built at most once through the cache.
type Dispatcher struct {
	resolver *resolver.Resolver
	fastPath *fastpath.Registry
	cache    *buildcache.Cache
	builder  ports.ArtifactBuilder
}

// New creates a new Dispatcher. A nil fastPath disables the fast path.
func New(
	res *resolver.Resolver,
	fastPath *fastpath.Registry,
	cache *buildcache.Cache,
	builder ports.ArtifactBuilder,
) *Dispatcher {
	return &Dispatcher{
		resolver: res,
		fastPath: fastPath,
		cache:    cache,
		builder:  builder,
	}
}

// WithoutFastPath returns a Dispatcher that shares the cache but always takes the generic path.
func (d *Dispatcher) WithoutFastPath() *Dispatcher {
	clone := *d
	clone.fastPath = nil
	return &clone
}

// Plan describes how a request would be served, without building anything.
type Plan struct {
	domain.BuildPlan
	// FastPath reports whether a pre-built artifact serves the request.
	FastPath bool
	// Cached reports whether the build cache already holds the artifact.
	Cached bool
}

// Describe resolves req, aggregates its dependencies and derives its key.
func (d *Dispatcher) Describe(_ context.Context, req domain.Request) (Plan, error) {
	plan, err := d.resolver.Plan(req)
	if err != nil {
		return Plan{}, err
	}

	_, fast := d.lookupFastPath(req)
	_, cached := d.cache.Get(plan.Key)
	return Plan{BuildPlan: plan, FastPath: fast, Cached: cached}, nil
}

// Artifact returns the loaded artifact serving req, building it on a cache miss.
func (d *Dispatcher) Artifact(ctx context.Context, req domain.Request) (ports.Artifact, error) {
	if artifact, ok := d.lookupFastPath(req); ok {
		return artifact, nil
	}

	plan, err := d.resolver.Plan(req)
	if err != nil {
		return nil, err
	}

	return d.cache.GetOrBuild(ctx, plan.Key, func(ctx context.Context) (ports.Artifact, error) {
		return d.builder.Build(ctx, plan)
	})
}

// ConstructMatrix returns a new matrix. With no arguments the matrix is empty and unsized.
// A single domain.MatrixLayout argument sizes it and enters implicit build mode.
func (d *Dispatcher) ConstructMatrix(ctx context.Context, req domain.MatrixRequest, args ...any) (ports.Matrix, error) {
	return construct[ports.Matrix](ctx, d, req, args...)
}

// ConstructVector returns a new block vector with size blocks.
// initial, when given, holds the scalars in flattened order.
func (d *Dispatcher) ConstructVector(
	ctx context.Context,
	req domain.VectorRequest,
	size int,
	initial []float64,
) (ports.BlockVector, error) {
	return construct[ports.BlockVector](ctx, d, req, size, initial)
}

// ConstructOperator returns an operator over matrix. A nil rng uses the domain type.
// The operator shares matrix with the caller and never copies it.
func (d *Dispatcher) ConstructOperator(
	ctx context.Context,
	matrix ports.Matrix,
	dom ports.BlockVector,
	rng ports.BlockVector,
) (ports.LinearOperator, error) {
	if matrix == nil || dom == nil {
		return nil, domain.NewUnsupportedShape(domain.RoleOperator, "matrix and domain vector are required")
	}

	req := domain.OperatorRequest{
		Matrix: matrix.Descriptor(),
		Domain: dom.Descriptor(),
	}
	if rng != nil {
		r := rng.Descriptor()
		req.Range = &r
	}

	return construct[ports.LinearOperator](ctx, d, req, matrix)
}

// GetSolver returns an inverse operator for op.
// The solver factory type depends only on the operator type and extra.
// config is handed to the factory at call time and never affects which artifact is used.
func (d *Dispatcher) GetSolver(
	ctx context.Context,
	op ports.LinearOperator,
	config domain.SolverConfig,
	extra ...string,
) (ports.InverseOperator, error) {
	if op == nil {
		return nil, domain.NewUnsupportedShape(domain.RoleSolverFactory, "an operator is required")
	}

	desc := op.Descriptor()
	factory, err := construct[ports.SolverFactory](ctx, d, domain.SolverFactoryRequest{
		Operator: &desc,
		Extra:    domain.NewDependencySet(extra...),
	})
	if err != nil {
		return nil, err
	}

	return factory.Get(op, config.Clone())
}

// ConstructIndexSet returns an empty sparsity pattern of rows by cols blocks.
func (d *Dispatcher) ConstructIndexSet(ctx context.Context, rows, cols int) (ports.MatrixIndexSet, error) {
	return construct[ports.MatrixIndexSet](ctx, d, domain.IndexSetRequest{}, rows, cols)
}

func (d *Dispatcher) lookupFastPath(req domain.Request) (ports.Artifact, bool) {
	if d.fastPath == nil {
		return nil, false
	}
	return d.fastPath.Lookup(req)
}

func construct[T any](ctx context.Context, d *Dispatcher, req domain.Request, args ...any) (T, error) {
	var zero T

	artifact, err := d.Artifact(ctx, req)
	if err != nil {
		return zero, err
	}

	instance, err := artifact.Construct(args...)
	if err != nil {
		return zero, zerr.With(zerr.Wrap(err, "failed to construct instance"), "descriptor", artifact.Descriptor().String())
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, zerr.With(zerr.Wrap(domain.ErrUnexpectedInstance, "artifact constructed the wrong kind of object"),
			"descriptor", artifact.Descriptor().String())
	}
	return typed, nil
}
