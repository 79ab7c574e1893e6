// Package native is the in-process artifact backend. It plays the role of the compiled
// library: each descriptor is rendered to a translation unit, checked for missing source
// fragments, recorded in the manifest store, and loaded as a generic Go instantiation.
package native

import (
	"context"
	"io"
	"strings"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// BuilderVersion is recorded in every manifest. Manifests from other versions are rebuilt.
const BuilderVersion = "forge-native/1"

// Builder implements ports.ArtifactBuilder.
type Builder struct {
	store    ports.ArtifactStore
	recorder ports.BuildRecorder
	logger   ports.Logger
	out      io.Writer
	now      func() time.Time
}

var _ ports.ArtifactBuilder = (*Builder)(nil)

// NewBuilder creates a new Builder. Verbose solver output is written to out.
func NewBuilder(
	store ports.ArtifactStore,
	recorder ports.BuildRecorder,
	logger ports.Logger,
	out io.Writer,
) *Builder {
	return &Builder{
		store:    store,
		recorder: recorder,
		logger:   logger,
		out:      out,
		now:      time.Now,
	}
}

// Build produces the artifact for plan. Missing or unresolvable source fragments fail
// the build with a *domain.BuildFailureError.
func (b *Builder) Build(ctx context.Context, plan domain.BuildPlan) (ports.Artifact, error) {
	vertex := b.recorder.Record(ctx, plan.Key.String(), "build "+plan.Descriptor.String())
	artifact, err := b.build(plan, vertex)
	vertex.Complete(err)
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

func (b *Builder) build(plan domain.BuildPlan, vertex ports.Vertex) (ports.Artifact, error) {
	desc := plan.Descriptor
	deps := plan.Dependencies()

	if missing := deps.Missing(RequiredDependencies(desc)); len(missing) > 0 {
		diag := zerr.With(zerr.Wrap(domain.ErrMissingDependency, "required source fragments were not supplied"),
			"missing", strings.Join(missing, ","))
		return nil, domain.NewBuildFailure(desc.String(), plan.Key, diag)
	}
	if bad := unresolvable(deps); len(bad) > 0 {
		diag := zerr.With(zerr.Wrap(domain.ErrMissingDependency, "source fragments cannot be resolved"),
			"fragments", strings.Join(bad, ","))
		return nil, domain.NewBuildFailure(desc.String(), plan.Key, diag)
	}

	unit := RenderUnit(plan)
	digest := UnitDigest(unit)
	_, _ = io.WriteString(vertex.Stdout(), unit)

	artifact, err := instantiate(plan, b.out)
	if err != nil {
		return nil, domain.NewBuildFailure(desc.String(), plan.Key, err)
	}

	if b.upToDate(plan.Key, digest) {
		vertex.Cached()
		vertex.Log(domain.LogLevelDebug, "reusing manifest "+plan.Key.String())
		return artifact, nil
	}

	manifest := domain.ArtifactManifest{
		Key:          plan.Key,
		Role:         desc.Role.String(),
		Descriptor:   desc.String(),
		Dependencies: deps.IDs(),
		UnitDigest:   digest,
		Builder:      BuilderVersion,
		Target:       HostTarget(),
		BuiltAt:      b.now().UTC(),
	}
	if err := b.store.Put(manifest); err != nil {
		// The artifact is loaded; only reuse across runs is lost.
		b.logger.Warn("failed to persist artifact manifest: " + err.Error())
	}
	return artifact, nil
}

// upToDate reports whether the store holds a manifest for key from this builder and unit.
func (b *Builder) upToDate(key domain.CacheKey, digest string) bool {
	manifest, err := b.store.Get(key)
	if err != nil {
		b.logger.Warn("failed to read artifact manifest: " + err.Error())
		return false
	}
	return manifest != nil && manifest.UnitDigest == digest && manifest.Builder == BuilderVersion
}
