// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// Artifact is a loaded, callable construction for one descriptor.
// Artifacts are shared through the build cache and never mutated after they are returned.
// Instances they construct are independent of the artifact.
type Artifact interface {
	// Key returns the cache key the artifact was built for.
	Key() domain.CacheKey
	// Descriptor returns the descriptor including its aggregated dependencies.
	Descriptor() domain.TypeDescriptor
	// Construct creates a new instance. Accepted arguments depend on the role.
	Construct(args ...any) (any, error)
}

// ArtifactBuilder produces artifacts for build plans, compiling them first if needed.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type ArtifactBuilder interface {
	// Build returns a loaded artifact for the plan.
	// A compile or link failure is returned as a *domain.BuildFailureError.
	Build(ctx context.Context, plan domain.BuildPlan) (Artifact, error)
}

// PrebuiltProvider supplies artifacts that exist without a build step.
type PrebuiltProvider interface {
	// Prebuilt loads the pre-compiled artifact for the plan, or reports false if none exists.
	Prebuilt(plan domain.BuildPlan) (Artifact, bool)
}
